// Package cont 提供可挂起的消息驱动计算
//
// [Cont] 是一个两态递归值：
//   - Awaiting：需要下一条输入，持有 resume 函数
//   - Finished：计算完成，持有结果
//
// 行为作者用组合子把"收消息、处理、再收下一条"的顺序代码写成 [Cont]，
// 宿主每收到一条消息就推进一次（见 [Runner]）。
//
// # 组合子
//
//	[Await]      等待下一条输入（bind-on-input）
//	[Receive]    以下一条输入作为结果
//	[Bind]       顺序组合两个计算
//	[Return]     直接完成
//	[Zero]       以 [Unit] 完成
//	[Combine]    先执行 unit 计算，再执行下一段
//	[TryWith]    异常保护，挂起后依然有效
//	[TryFinally] 生命周期结束时恰好执行一次清理
//	[Using]      作用域资源
//	[While]      条件循环
//	[For]        迭代 iter.Seq
//	[Delay]/[Run] 延迟构造
//
// 异常通过 panic 传递，[Throw] 是显式抛出的写法。
//
// # 示例
//
//	// 收到两条消息后返回它们的拼接
//	c := cont.Bind(cont.Receive[string](), func(a string) cont.Cont[string, string] {
//		return cont.Bind(cont.Receive[string](), func(b string) cont.Cont[string, string] {
//			return cont.Return[string](a + b)
//		})
//	})
//
// # 限制
//
// 本包不加锁，同一个 [Cont] 或 [Runner] 只能被一个 goroutine 推进。
// 挂起中的计算如果被外部丢弃（例如宿主 Actor 被强制停止），
// 其中尚未执行的 [TryFinally]/[Using] 清理动作不会运行；
// 不要依赖它们释放关键资源。
package cont

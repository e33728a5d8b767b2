// Package behavior 把可挂起计算托管为 Actor
//
// 行为函数接收 [Mailbox]，返回 [Behavior]：一个等待消息、最终给出结果的计算。
// 宿主 Actor 在启动时调用行为函数，之后把每条投递的消息交给计算，
// 计算完成后宿主停止自身。
//
//	length := func(mb *behavior.Mailbox[string]) behavior.Behavior[string, int] {
//		return cont.Map(mb.Receive(), func(s string) int { return len(s) })
//	}
//	pid := behavior.Spawn(sys, "length", length)
//	pid.Tell("hi")
//
// 宿主按类型参数 T 接收消息。类型不符的消息交给 Context.Unhandled，
// 生命周期通知（Started、Stopping、Stopped、Restarting）不会进入行为。
// 发送者随每次投递通过 [Envelope] 显式传入，也可以用 [Mailbox.Sender] 读取当前发送者。
//
// 计算中的 panic 未被 TryWith 捕获时交给监督策略；重启会重新调用行为函数。
package behavior

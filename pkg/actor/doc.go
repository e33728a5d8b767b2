// Package actor 提供 Actor 运行时
//
// 每个 Actor 是独立的计算单元：
// 拥有私有状态，通过邮箱接收消息，一次只处理一条。
//
// # 核心组件
//
// [System] 是 Actor 系统的入口，管理所有 Actor 的生命周期：
//
//	sys := actor.NewSystem("my-system")
//	defer sys.Shutdown()
//
// [Actor] 接口定义消息处理行为，[ActorFunc] 提供函数式快捷方式。
// 实现 [PreStarter] 的 Actor 在每次启动和重启后、处理第一条消息前收到 PreStart 调用。
//
// [Props] 描述如何创建 Actor。Producer 在每次启动和重启时调用，
// [SpawnOption] 以不可变方式派生新的 Props：
//
//	props := actor.PropsFromProducer(newWorker).WithOptions(
//		actor.WithRouter(actor.RoundRobinRouter, 4),
//		actor.WithMailbox("large"),
//	)
//	pid := sys.SpawnWithProps(props, "workers")
//
// [PID] 是 Actor 的唯一标识。[PID.Tell] 异步发送消息，[Ask] 等待单条带类型的回复。
// [Context] 在一次投递期间有效，提供当前发送者、回复、创建子 Actor、监控等操作。
//
// # 监督
//
// 失败 Actor 的父 Actor 的 [SupervisorStrategy] 给出 [Decision]，顶层 Actor 使用系统默认策略。
// [OneForOneStrategy] 只处理失败者，[AllForOneStrategy] 同时作用于兄弟，
// [ExponentialBackoffStrategy] 延迟重启。Escalate 让父 Actor 以同一原因失败。
//
// # 系统外部
//
// [Inbox] 让测试和命令行代码以 Actor 身份收发消息。[Scheduler] 定时发送，
// [PipeTo] 把后台任务结果投递为消息，[EventStream] 按类型发布
// [DeadLetter]、[UnhandledMessage] 等事件。
//
// # 配置
//
// [DefaultSystemConfig] 取自 config 包的内嵌默认配置，
// [SystemConfigFromSettings] 由用户配置生成 [SystemConfig]。
// 命名邮箱和调度器在配置中声明，未知名称回退到 default 并记录警告。
package actor

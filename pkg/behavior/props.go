package behavior

import (
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/cont"
)

// Props 由行为函数创建 Actor 属性
//
// 每次启动或重启都会重新调用 fn 得到新的计算。
// 宿主被外部停止时，挂起中的计算直接丢弃，其中 TryFinally / Using
// 登记的清理不会执行；需要确定释放的资源应在 actor.Stopped 之外另行管理。
func Props[T, R any](fn func(*Mailbox[T]) Behavior[T, R], opts ...actor.SpawnOption) *actor.Props {
	return actor.PropsFromProducer(func() actor.Actor {
		return newHost(fn)
	}).WithOptions(opts...)
}

// Spawn 创建运行行为函数的 Actor
func Spawn[T, R any](spawner actor.Spawner, name string, fn func(*Mailbox[T]) Behavior[T, R], opts ...actor.SpawnOption) *actor.PID {
	return spawner.SpawnWithProps(Props(fn, opts...), name)
}

// ActorOf 无状态行为：每条消息调用一次 handler，永不结束
func ActorOf[T any](handler func(msg T), opts ...actor.SpawnOption) *actor.Props {
	return ActorOf2(func(_ *Mailbox[T], msg T) { handler(msg) }, opts...)
}

// ActorOf2 与 ActorOf 相同，handler 额外得到 Mailbox
func ActorOf2[T any](handler func(mb *Mailbox[T], msg T), opts ...actor.SpawnOption) *actor.Props {
	return Props(func(mb *Mailbox[T]) Behavior[T, cont.Unit] {
		return cont.While(func() bool { return true }, func() Behavior[T, cont.Unit] {
			return cont.Map(mb.Receive(), func(msg T) cont.Unit {
				handler(mb, msg)
				return cont.Unit{}
			})
		})
	}, opts...)
}

package behavior

import (
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/cont"
)

// host 驱动行为函数的 Actor
//
// 每个化身在 PreStart 中调用一次行为函数，此后每条 T 类型的投递推进一步。
// 计算完成时请求停止自身，且只请求一次。
type host[T, R any] struct {
	fn      func(*Mailbox[T]) Behavior[T, R]
	mailbox *Mailbox[T]
	runner  *cont.Runner[Envelope[T], R]
	stop    func(*actor.Context)

	stopRequested bool
}

func newHost[T, R any](fn func(*Mailbox[T]) Behavior[T, R]) *host[T, R] {
	return &host[T, R]{fn: fn, stop: (*actor.Context).StopSelf}
}

// PreStart 实现 actor.PreStarter
func (h *host[T, R]) PreStart(ctx *actor.Context) {
	h.stopRequested = false
	h.mailbox = newMailbox[T](ctx)
	h.runner = cont.NewRunner(h.fn(h.mailbox))
}

// Receive 实现 actor.Actor
func (h *host[T, R]) Receive(ctx *actor.Context, msg actor.Message) {
	// 生命周期通知由运行时处理，不进入行为
	if actor.IsLifecycle(msg) {
		return
	}

	// 已完成时任何投递都只触发停止，构造时即完成的行为也在第一条投递时停止
	if h.runner.Finished() {
		h.requestStop(ctx)
		return
	}

	typed, ok := msg.(T)
	if !ok {
		ctx.Unhandled(msg)
		return
	}

	h.mailbox.bind(ctx)
	if h.runner.Feed(Envelope[T]{Message: typed, Sender: ctx.Sender}) {
		if r, ok := h.runner.Result(); ok {
			ctx.Logger().Debug("behavior finished", "steps", h.runner.Steps(), "result", r)
		}
		h.requestStop(ctx)
	}
}

func (h *host[T, R]) requestStop(ctx *actor.Context) {
	if h.stopRequested {
		return
	}
	h.stopRequested = true
	h.stop(ctx)
}

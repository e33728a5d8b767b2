package behavior

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/cont"
)

// Envelope 一次投递：消息以及发送者
type Envelope[T any] struct {
	Message T
	Sender  *actor.PID
}

// Behavior 以 Envelope[T] 为输入、以 R 为结果的可挂起计算
type Behavior[T, R any] = cont.Cont[Envelope[T], R]

// Mailbox 行为函数可用的能力
//
// Mailbox 只在宿主 Actor 的消息循环内使用，不能跨 goroutine 保存。
type Mailbox[T any] struct {
	self   *actor.PID
	ctx    *actor.Context
	sender *actor.PID
	log    func() *slog.Logger
}

func newMailbox[T any](ctx *actor.Context) *Mailbox[T] {
	return &Mailbox[T]{
		self: ctx.Self,
		ctx:  ctx,
		log:  sync.OnceValue(ctx.Logger),
	}
}

// bind 切换到当前投递的上下文
func (m *Mailbox[T]) bind(ctx *actor.Context) {
	m.ctx = ctx
	m.sender = ctx.Sender
}

// Receive 挂起直到下一条消息
func (m *Mailbox[T]) Receive() Behavior[T, T] {
	return cont.Map(cont.Receive[Envelope[T]](), func(e Envelope[T]) T {
		return e.Message
	})
}

// ReceiveEnvelope 挂起直到下一条消息，连同发送者返回
func (m *Mailbox[T]) ReceiveEnvelope() Behavior[T, Envelope[T]] {
	return cont.Receive[Envelope[T]]()
}

// Self 宿主 Actor 的 PID
func (m *Mailbox[T]) Self() *actor.PID {
	return m.self
}

// Context 当前投递的 Actor 上下文
func (m *Mailbox[T]) Context() *actor.Context {
	return m.ctx
}

// Sender 当前投递的发送者，可能为 nil
func (m *Mailbox[T]) Sender() *actor.PID {
	return m.sender
}

// Unhandled 报告无法处理的消息
func (m *Mailbox[T]) Unhandled(msg actor.Message) {
	m.ctx.Unhandled(msg)
}

// Log 带 actor 属性的日志器，首次调用时创建
func (m *Mailbox[T]) Log() *slog.Logger {
	return m.log()
}

// Tell 以宿主为发送者发送消息
func (m *Mailbox[T]) Tell(target *actor.PID, msg actor.Message) {
	m.ctx.Tell(target, msg)
}

// Reply 回复当前发送者
func (m *Mailbox[T]) Reply(msg actor.Message) {
	m.ctx.Reply(msg)
}

// Watch 监控 pid，终止时收到 *actor.Terminated
func (m *Mailbox[T]) Watch(pid *actor.PID) {
	m.ctx.Watch(pid)
}

// Unwatch 取消监控
func (m *Mailbox[T]) Unwatch(pid *actor.PID) {
	m.ctx.Unwatch(pid)
}

// Stop 停止 pid
func (m *Mailbox[T]) Stop(pid *actor.PID) {
	m.ctx.Stop(pid)
}

// ScheduleOnce 在 delay 之后以宿主为发送者向 target 发送 msg
func (m *Mailbox[T]) ScheduleOnce(delay time.Duration, target *actor.PID, msg actor.Message) *actor.Cancelable {
	return m.ctx.System().Scheduler().ScheduleTellOnce(delay, target, msg, m.self)
}

// Pipe 在后台运行 task，结果投递给宿主自身
//
// 失败以 *actor.Failure 投递，T 无法接收时走 Unhandled。
func (m *Mailbox[T]) Pipe(task func(context.Context) (T, error)) {
	actor.PipeTo(m.ctx.Context(), task, m.self, m.self)
}

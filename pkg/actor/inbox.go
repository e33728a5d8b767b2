package actor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInboxTimeout 等待消息超时
var ErrInboxTimeout = errors.New("actor: inbox receive timed out")

// ErrInboxClosed Inbox 已关闭
var ErrInboxClosed = errors.New("actor: inbox closed")

// Delivery Inbox 收到的一条消息
type Delivery struct {
	Message Message
	Sender  *PID
}

// Inbox 在 Actor 之外收发消息
//
// Inbox 自身是一个 Actor，收到的消息（生命周期通知除外）进入队列，
// 由调用方同步取出。适用于测试和 CLI 等系统外部代码。
type Inbox struct {
	system *System
	pid    *PID
	ch     chan Delivery

	mu      sync.Mutex
	pending []Delivery
}

// NewInbox 创建 Inbox
func NewInbox(sys *System) *Inbox {
	in := &Inbox{
		system: sys,
		ch:     make(chan Delivery, sys.config.DefaultActorMailboxSize),
	}
	in.pid = sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		if IsLifecycle(msg) {
			return
		}
		if !TrySendWithContext(ctx.Context(), in.ch, Delivery{Message: msg, Sender: ctx.Sender}) {
			ctx.Logger().Warn("inbox full, message dropped", "kind", KindOf(msg))
		}
	}), "$inbox-"+uuid.NewString())
	return in
}

// Self Inbox 的 PID，可作为发送者或 Watch 的监控方
func (in *Inbox) Self() *PID {
	return in.pid
}

// Send 以 Inbox 为发送者发送消息
func (in *Inbox) Send(target *PID, msg Message) {
	in.system.SendWithSender(target, msg, in.pid)
}

// Watch 监控 target，终止时 Inbox 收到 [Terminated]
func (in *Inbox) Watch(target *PID) {
	in.system.watch(target, in.pid)
}

// Receive 取出下一条消息
func (in *Inbox) Receive(timeout time.Duration) (Message, error) {
	d, err := in.ReceiveDelivery(timeout)
	return d.Message, err
}

// ReceiveDelivery 取出下一条消息及其发送者
func (in *Inbox) ReceiveDelivery(timeout time.Duration) (Delivery, error) {
	return in.receive(func(Message) bool { return true }, timeout)
}

// ReceiveWhere 取出第一条满足 pred 的消息
//
// 期间收到的不满足条件的消息保留，供之后的接收按原顺序取出。
func (in *Inbox) ReceiveWhere(pred func(Message) bool, timeout time.Duration) (Message, error) {
	d, err := in.receive(pred, timeout)
	return d.Message, err
}

// ReceiveContext 取出下一条消息，ctx 结束时返回 ctx.Err()
func (in *Inbox) ReceiveContext(ctx context.Context) (Message, error) {
	d, err := in.receiveContext(ctx, func(Message) bool { return true })
	return d.Message, err
}

func (in *Inbox) receive(pred func(Message) bool, timeout time.Duration) (Delivery, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d, err := in.receiveContext(ctx, pred)
	if errors.Is(err, context.DeadlineExceeded) {
		return Delivery{}, ErrInboxTimeout
	}
	return d, err
}

func (in *Inbox) receiveContext(ctx context.Context, pred func(Message) bool) (Delivery, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	for i, d := range in.pending {
		if pred(d.Message) {
			in.pending = append(in.pending[:i], in.pending[i+1:]...)
			return d, nil
		}
	}

	for {
		select {
		case d, ok := <-in.ch:
			if !ok {
				return Delivery{}, ErrInboxClosed
			}
			if pred(d.Message) {
				return d, nil
			}
			in.pending = append(in.pending, d)
		case <-ctx.Done():
			return Delivery{}, ctx.Err()
		}
	}
}

// Close 停止 Inbox Actor
func (in *Inbox) Close() {
	in.system.Stop(in.pid)
}

// ReceiveAs 取出下一条类型为 T 的消息
//
// 超时或下一条消息类型不符时返回 false。
func ReceiveAs[T any](in *Inbox, timeout time.Duration) (T, bool) {
	var zero T
	msg, err := in.Receive(timeout)
	if err != nil {
		return zero, false
	}
	v, ok := msg.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

package actor

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnexpectedReply 回复类型与期望不符
var ErrUnexpectedReply = errors.New("actor: unexpected reply type")

// ═══════════════════════════════════════════════════════════════════════════
// 通用请求-回复辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// Ask 向 Actor 发送消息并等待类型为 T 的回复
//
// 目标通过 ctx.Reply 回复即可，回复发往临时 future PID。
// 回复为 *Failure 且 T 不匹配时返回该 Failure。
//
// 用法示例:
//
//	type GetStatus struct{}
//
//	status, err := actor.Ask[*Status](pid, &GetStatus{}, 5*time.Second)
func Ask[T any](pid *PID, msg Message, timeout time.Duration) (T, error) {
	var zero T
	if pid == nil || pid.system == nil {
		return zero, ErrSystemNotRunning
	}
	reply, err := pid.system.Request(pid, msg, timeout)
	if err != nil {
		return zero, err
	}
	return replyAs[T](reply)
}

// AskWithContext 带 context 的请求-回复
// 支持通过 context 取消请求
func AskWithContext[T any](ctx context.Context, pid *PID, msg Message) (T, error) {
	var zero T
	if pid == nil || pid.system == nil {
		return zero, ErrSystemNotRunning
	}
	reply, err := pid.system.RequestContext(ctx, pid, msg)
	if err != nil {
		return zero, err
	}
	return replyAs[T](reply)
}

func replyAs[T any](reply Message) (T, error) {
	if v, ok := reply.(T); ok {
		return v, nil
	}
	var zero T
	if f, ok := reply.(*Failure); ok {
		return zero, f
	}
	return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedReply, reply, zero)
}

// ═══════════════════════════════════════════════════════════════════════════
// 通道工具函数
// ═══════════════════════════════════════════════════════════════════════════

// TrySendWithContext 带 context 的尝试发送
// 如果 context 取消或通道满，返回 false
func TrySendWithContext[T any](ctx context.Context, ch chan<- T, value T) bool {
	if ch == nil {
		return false
	}
	select {
	case ch <- value:
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误处理工具
// ═══════════════════════════════════════════════════════════════════════════

// IsContextError 检查错误是否为 context 相关错误
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// IgnoreContextError 如果是 context 错误则返回 nil
func IgnoreContextError(err error) error {
	if IsContextError(err) {
		return nil
	}
	return err
}

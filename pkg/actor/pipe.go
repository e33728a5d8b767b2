package actor

import (
	"context"
	"fmt"
)

// Failure 异步任务失败时投递给接收方的消息
type Failure struct {
	Err error
}

// Error 实现 error 接口
func (f *Failure) Error() string {
	return fmt.Sprintf("async task failed: %v", f.Err)
}

// Unwrap 返回原始错误
func (f *Failure) Unwrap() error {
	return f.Err
}

// Kind 实现 Kinded 接口
func (f *Failure) Kind() string { return "system.failure" }

// PipeTo 在后台运行 task，把结果作为消息投递给 recipient
//
// 调用立即返回。task 完成后恰好投递一条消息，发送者为 sender：
// 成功时投递结果值，返回错误、ctx 在开始前已取消或 task panic 时投递 [*Failure]。
func PipeTo[T any](ctx context.Context, task func(context.Context) (T, error), recipient, sender *PID) {
	if recipient == nil || recipient.system == nil {
		return
	}
	sys := recipient.system

	go func() {
		var result Message
		defer func() {
			if r := recover(); r != nil {
				result = &Failure{Err: recoveredError(r)}
			}
			sys.SendWithSender(recipient, result, sender)
		}()

		if err := ctx.Err(); err != nil {
			result = &Failure{Err: err}
			return
		}
		v, err := task(ctx)
		if err != nil {
			result = &Failure{Err: err}
			return
		}
		result = v
	}()
}

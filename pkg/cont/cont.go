package cont

import (
	"errors"
	"fmt"
)

// ErrFinished 对已完成的计算调用 Resume
var ErrFinished = errors.New("cont: resume on finished computation")

// Unit 无结果计算的结果类型
type Unit = struct{}

// Cont 可挂起计算
//
// resume 为 nil 时处于 Finished 状态，零值即 Finished(零值结果)。
type Cont[In, R any] struct {
	resume func(In) Cont[In, R]
	value  R
}

// Delayed 延迟构造的计算
type Delayed[In, R any] func() Cont[In, R]

// Await 创建等待下一条输入的计算
func Await[In, R any](resume func(In) Cont[In, R]) Cont[In, R] {
	if resume == nil {
		panic("cont: Await with nil resume")
	}
	return Cont[In, R]{resume: resume}
}

// Return 直接以 v 完成
func Return[In, R any](v R) Cont[In, R] {
	return Cont[In, R]{value: v}
}

// Zero 以 Unit 完成
func Zero[In any]() Cont[In, Unit] {
	return Cont[In, Unit]{}
}

// Receive 以下一条输入作为结果
func Receive[In any]() Cont[In, In] {
	return Await(func(msg In) Cont[In, In] {
		return Return[In](msg)
	})
}

// IsFinished 是否已完成
func (c Cont[In, R]) IsFinished() bool {
	return c.resume == nil
}

// Result 返回结果，未完成时第二个返回值为 false
func (c Cont[In, R]) Result() (R, bool) {
	if c.resume != nil {
		var zero R
		return zero, false
	}
	return c.value, true
}

// Resume 用一条输入推进计算
//
// 对已完成的计算调用会 panic(ErrFinished)。
func (c Cont[In, R]) Resume(msg In) Cont[In, R] {
	if c.resume == nil {
		panic(ErrFinished)
	}
	return c.resume(msg)
}

// String 便于调试
func (c Cont[In, R]) String() string {
	if c.resume == nil {
		return fmt.Sprintf("Finished(%v)", c.value)
	}
	return "Awaiting"
}

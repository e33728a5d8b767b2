package cont

import "fmt"

// Bind 顺序组合：c 完成后把结果交给 f
//
// c 已完成时立即调用 f，不消耗输入；
// c 挂起时返回的计算在每次恢复后对新状态重新 Bind。
func Bind[In, A, B any](c Cont[In, A], f func(A) Cont[In, B]) Cont[In, B] {
	if c.resume == nil {
		return f(c.value)
	}
	resume := c.resume
	return Await(func(msg In) Cont[In, B] {
		return Bind(resume(msg), f)
	})
}

// Map 对结果做纯变换
func Map[In, A, B any](c Cont[In, A], f func(A) B) Cont[In, B] {
	return Bind(c, func(a A) Cont[In, B] {
		return Return[In](f(a))
	})
}

// Combine 先运行 first，完成后再构造并运行 next
func Combine[In, R any](first Cont[In, Unit], next Delayed[In, R]) Cont[In, R] {
	return Bind(first, func(Unit) Cont[In, R] {
		return next()
	})
}

// Delay 推迟计算的构造，直到 Run 时才执行 f 中的副作用
func Delay[In, R any](f func() Cont[In, R]) Delayed[In, R] {
	return f
}

// Run 构造延迟的计算
func Run[In, R any](d Delayed[In, R]) Cont[In, R] {
	return d()
}

// Throw 抛出 err，由外层 TryWith 捕获或交给运行时的监督
func Throw[In, R any](err error) Cont[In, R] {
	panic(err)
}

// PanicError 非 error 类型的 panic 值
type PanicError struct {
	Value any
}

// Error 实现 error 接口
func (e *PanicError) Error() string {
	return fmt.Sprintf("cont: panic: %v", e.Value)
}

// AsError 把 recover 得到的值转换为 error
func AsError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &PanicError{Value: r}
}

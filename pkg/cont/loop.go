package cont

import (
	"iter"
	"slices"
)

// While 每轮迭代前检查 cond，为真时运行 body 直到完成
//
// body 挂起时整个循环挂起，恢复后继续当前迭代并进入下一轮。
// 同步完成的迭代在循环内展开，不会加深调用栈。
func While[In any](cond func() bool, body Delayed[In, Unit]) Cont[In, Unit] {
	for cond() {
		c := body()
		if c.resume != nil {
			return Bind(c, func(Unit) Cont[In, Unit] {
				return While(cond, body)
			})
		}
	}
	return Zero[In]()
}

// For 对 seq 中每个元素运行 body
//
// 迭代器通过 iter.Pull 拉取，循环完成或 panic 时都会停止迭代器。
func For[In, T any](seq iter.Seq[T], body func(T) Cont[In, Unit]) Cont[In, Unit] {
	next, stop := iter.Pull(seq)
	var current T
	return TryFinally(func() Cont[In, Unit] {
		return While(func() bool {
			v, ok := next()
			current = v
			return ok
		}, func() Cont[In, Unit] {
			return body(current)
		})
	}, stop)
}

// ForEach 对切片中每个元素运行 body
func ForEach[In, T any](items []T, body func(T) Cont[In, Unit]) Cont[In, Unit] {
	return For(slices.Values(items), body)
}

package cont

import (
	"fmt"
	"io"
	"reflect"
)

// TryWith 运行 body，panic 时交给 handler 生成替代计算
//
// body 挂起后，保护会随 resume 一起重新安装，
// 之后任何一次恢复中的 panic 依然由同一个 handler 处理。
// handler 自身的 panic 不会被捕获。
func TryWith[In, R any](body Delayed[In, R], handler func(error) Cont[In, R]) Cont[In, R] {
	c, err := protect(body)
	if err != nil {
		return handler(err)
	}
	if c.resume == nil {
		return c
	}
	resume := c.resume
	return Await(func(msg In) Cont[In, R] {
		return TryWith(func() Cont[In, R] { return resume(msg) }, handler)
	})
}

func protect[In, R any](body Delayed[In, R]) (c Cont[In, R], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = AsError(r)
		}
	}()
	return body(), nil
}

// TryFinally 运行 body，并在其生命周期结束时恰好执行一次 cleanup
//
// 生命周期结束指计算完成或 panic；挂起不算结束。
// panic 时先执行 cleanup，再原样继续传播。
func TryFinally[In, R any](body Delayed[In, R], cleanup func()) Cont[In, R] {
	ok := false
	defer func() {
		if !ok {
			cleanup()
		}
	}()
	c := body()
	ok = true

	if c.resume == nil {
		cleanup()
		return c
	}
	resume := c.resume
	return Await(func(msg In) Cont[In, R] {
		return TryFinally(func() Cont[In, R] { return resume(msg) }, cleanup)
	})
}

// Using 在 body 的生命周期内持有 res，结束时关闭
//
// res 为 nil 时跳过关闭。关闭失败会 panic。
func Using[In, R any, C io.Closer](res C, body func(C) Cont[In, R]) Cont[In, R] {
	return TryFinally(func() Cont[In, R] { return body(res) }, func() {
		if isNil(res) {
			return
		}
		if err := res.Close(); err != nil {
			panic(fmt.Errorf("cont: release resource: %w", err))
		}
	})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

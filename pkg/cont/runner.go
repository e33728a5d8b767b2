package cont

// Runner 持有当前计算，每次 Feed 推进一步
//
// 非并发安全，调用方保证同一时刻只有一个 goroutine 调用。
type Runner[In, R any] struct {
	current Cont[In, R]
	steps   int
}

// NewRunner 以 c 为初始状态创建 Runner
func NewRunner[In, R any](c Cont[In, R]) *Runner[In, R] {
	return &Runner[In, R]{current: c}
}

// Feed 把 msg 交给当前挂起的计算
//
// 返回值表示本次推进是否使计算进入完成状态。
// 计算已完成时不消耗 msg，直接返回 false。
// resume 中的 panic 原样传播，当前状态保持不变。
func (r *Runner[In, R]) Feed(msg In) bool {
	if r.current.resume == nil {
		return false
	}
	next := r.current.resume(msg)
	r.current = next
	r.steps++
	return next.resume == nil
}

// Finished 计算是否已完成
func (r *Runner[In, R]) Finished() bool {
	return r.current.resume == nil
}

// Result 返回计算结果
func (r *Runner[In, R]) Result() (R, bool) {
	return r.current.Result()
}

// Steps 已消耗的输入数
func (r *Runner[In, R]) Steps() int {
	return r.steps
}

package actor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Cancelable 已安排的定时任务
type Cancelable struct {
	stop      chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
	cancelled atomic.Bool

	mu  sync.Mutex
	err error
}

func newCancelable() *Cancelable {
	return &Cancelable{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Cancel 取消任务，已执行的动作不受影响；可重复调用
func (c *Cancelable) Cancel() {
	c.stopOnce.Do(func() {
		c.cancelled.Store(true)
		close(c.stop)
	})
}

// IsCancelled 任务是否被取消
func (c *Cancelable) IsCancelled() bool {
	return c.cancelled.Load()
}

// Done 任务结束（执行完毕、取消或出错）时关闭
func (c *Cancelable) Done() <-chan struct{} {
	return c.done
}

// Err 任务动作 panic 时的错误，否则为 nil
func (c *Cancelable) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Wait 等待任务结束，返回 [Cancelable.Err]；ctx 先结束时返回 ctx.Err()
func (c *Cancelable) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return c.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cancelable) fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

// Scheduler 定时发送消息或执行动作
//
// 系统关闭时取消所有未结束的任务。
type Scheduler struct {
	system *System

	mu      sync.Mutex
	pending map[*Cancelable]struct{}
}

func newScheduler(sys *System) *Scheduler {
	return &Scheduler{
		system:  sys,
		pending: make(map[*Cancelable]struct{}),
	}
}

// ScheduleOnce 在 delay 之后执行一次 action
func (s *Scheduler) ScheduleOnce(delay time.Duration, action func()) *Cancelable {
	return s.schedule(delay, 0, action)
}

// ScheduleRepeatedly 在 initial 之后首次执行，此后每隔 interval 执行
//
// action panic 时停止重复，错误记录在 Cancelable 上。
func (s *Scheduler) ScheduleRepeatedly(initial, interval time.Duration, action func()) *Cancelable {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.schedule(initial, interval, action)
}

// ScheduleTellOnce 在 delay 之后以 sender 身份向 target 发送一次 msg
func (s *Scheduler) ScheduleTellOnce(delay time.Duration, target *PID, msg Message, sender *PID) *Cancelable {
	return s.ScheduleOnce(delay, func() {
		s.system.SendWithSender(target, msg, sender)
	})
}

// ScheduleTellRepeatedly 周期性发送 msg
func (s *Scheduler) ScheduleTellRepeatedly(initial, interval time.Duration, target *PID, msg Message, sender *PID) *Cancelable {
	return s.ScheduleRepeatedly(initial, interval, func() {
		s.system.SendWithSender(target, msg, sender)
	})
}

func (s *Scheduler) schedule(delay, interval time.Duration, action func()) *Cancelable {
	c := newCancelable()

	s.mu.Lock()
	s.pending[c] = struct{}{}
	s.mu.Unlock()

	go s.run(c, delay, interval, action)
	return c
}

func (s *Scheduler) run(c *Cancelable, delay, interval time.Duration, action func()) {
	defer func() {
		s.mu.Lock()
		delete(s.pending, c)
		s.mu.Unlock()
		close(c.done)
	}()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-s.system.ctx.Done():
			c.Cancel()
			return
		case <-timer.C:
		}

		// 定时器与取消同时就绪时以取消为准
		if c.IsCancelled() {
			return
		}
		if err := s.fire(action); err != nil {
			c.fail(err)
			s.system.logger.Error("scheduled action failed", "error", err)
			return
		}
		if interval <= 0 {
			return
		}
		timer.Reset(interval)
	}
}

func (s *Scheduler) fire(action func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	action()
	return nil
}

// cancelAll 取消所有未结束的任务
func (s *Scheduler) cancelAll() {
	s.mu.Lock()
	pending := make([]*Cancelable, 0, len(s.pending))
	for c := range s.pending {
		pending = append(pending, c)
	}
	s.mu.Unlock()

	for _, c := range pending {
		c.Cancel()
	}
}

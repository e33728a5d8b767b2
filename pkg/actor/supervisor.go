package actor

import (
	"sync"
	"time"
)

// Directive 监督指令
type Directive int

const (
	// DirectiveResume 恢复 Actor，继续处理消息
	DirectiveResume Directive = iota
	// DirectiveRestart 重启 Actor
	DirectiveRestart
	// DirectiveStop 停止 Actor
	DirectiveStop
	// DirectiveEscalate 上报给父 Actor 处理
	DirectiveEscalate
)

// String 返回指令名称
func (d Directive) String() string {
	switch d {
	case DirectiveResume:
		return "Resume"
	case DirectiveRestart:
		return "Restart"
	case DirectiveStop:
		return "Stop"
	case DirectiveEscalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}

// Decision 监督决定
type Decision struct {
	Directive Directive
	// Delay 大于 0 时延迟执行重启
	Delay time.Duration
	// AllChildren 为真时指令同时作用于失败者的兄弟
	AllChildren bool
}

// SupervisorStrategy 监督策略接口
//
// 失败 Actor 的父 Actor 的策略生效，顶层 Actor 使用系统默认策略。
type SupervisorStrategy interface {
	// HandleFailure 处理子 Actor 失败，reason 为 panic 值
	HandleFailure(child *PID, msg Message, reason any) Decision
}

// Decider 决策函数类型
type Decider func(reason any) Directive

// restartWindow 时间窗口内的重启计数
//
// maxRestarts < 0 不限次数，within == 0 不重置计数。
type restartWindow struct {
	maxRestarts int
	within      time.Duration
	history     []time.Time
}

// allow 记录一次重启，超过上限时返回 false
func (w *restartWindow) allow(now time.Time) bool {
	if w.maxRestarts < 0 {
		return true
	}
	if w.within > 0 {
		cutoff := now.Add(-w.within)
		valid := w.history[:0]
		for _, t := range w.history {
			if t.After(cutoff) {
				valid = append(valid, t)
			}
		}
		w.history = valid
	}
	if len(w.history) >= w.maxRestarts {
		return false
	}
	w.history = append(w.history, now)
	return true
}

// ============== 内置监督策略 ==============

// OneForOneStrategy 一对一策略
// 只处理失败的 Actor，不影响其他子 Actor；每个子 Actor 单独计数
type OneForOneStrategy struct {
	MaxRestarts    int           // 最大重启次数，小于 0 不限
	WithinDuration time.Duration // 时间窗口，0 不重置
	Decider        Decider       // 决策函数

	mu      sync.Mutex
	windows map[string]*restartWindow
}

// NewOneForOneStrategy 创建一对一策略
func NewOneForOneStrategy(maxRestarts int, within time.Duration, decider Decider) *OneForOneStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &OneForOneStrategy{
		MaxRestarts:    maxRestarts,
		WithinDuration: within,
		Decider:        decider,
		windows:        make(map[string]*restartWindow),
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *OneForOneStrategy) HandleFailure(child *PID, _ Message, reason any) Decision {
	directive := s.Decider(reason)
	if directive != DirectiveRestart {
		return Decision{Directive: directive}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[child.ID]
	if !ok {
		w = &restartWindow{maxRestarts: s.MaxRestarts, within: s.WithinDuration}
		s.windows[child.ID] = w
	}
	if !w.allow(time.Now()) {
		delete(s.windows, child.ID)
		return Decision{Directive: DirectiveStop}
	}
	return Decision{Directive: DirectiveRestart}
}

// AllForOneStrategy 全部处理策略
// 当一个子 Actor 失败时，重启或停止所有子 Actor
type AllForOneStrategy struct {
	MaxRestarts    int
	WithinDuration time.Duration
	Decider        Decider

	mu     sync.Mutex
	window restartWindow
}

// NewAllForOneStrategy 创建全部处理策略
func NewAllForOneStrategy(maxRestarts int, within time.Duration, decider Decider) *AllForOneStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &AllForOneStrategy{
		MaxRestarts:    maxRestarts,
		WithinDuration: within,
		Decider:        decider,
		window:         restartWindow{maxRestarts: maxRestarts, within: within},
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *AllForOneStrategy) HandleFailure(_ *PID, _ Message, reason any) Decision {
	directive := s.Decider(reason)

	switch directive {
	case DirectiveRestart:
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.window.allow(time.Now()) {
			return Decision{Directive: DirectiveStop, AllChildren: true}
		}
		return Decision{Directive: DirectiveRestart, AllChildren: true}
	case DirectiveStop:
		return Decision{Directive: DirectiveStop, AllChildren: true}
	}
	return Decision{Directive: directive}
}

// ExponentialBackoffStrategy 指数退避策略
// 重启间隔逐渐增加
type ExponentialBackoffStrategy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxRestarts  int
	Decider      Decider

	mu           sync.Mutex
	currentDelay time.Duration
	restartCount int
}

// NewExponentialBackoffStrategy 创建指数退避策略
func NewExponentialBackoffStrategy(initialDelay, maxDelay time.Duration, maxRestarts int, decider Decider) *ExponentialBackoffStrategy {
	if decider == nil {
		decider = DefaultDecider
	}
	return &ExponentialBackoffStrategy{
		InitialDelay: initialDelay,
		MaxDelay:     maxDelay,
		MaxRestarts:  maxRestarts,
		Decider:      decider,
		currentDelay: initialDelay,
	}
}

// HandleFailure 实现 SupervisorStrategy
func (s *ExponentialBackoffStrategy) HandleFailure(_ *PID, _ Message, reason any) Decision {
	directive := s.Decider(reason)
	if directive != DirectiveRestart {
		return Decision{Directive: directive}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.MaxRestarts >= 0 && s.restartCount >= s.MaxRestarts {
		return Decision{Directive: DirectiveStop}
	}

	delay := s.currentDelay
	s.currentDelay *= 2
	if s.currentDelay > s.MaxDelay {
		s.currentDelay = s.MaxDelay
	}
	s.restartCount++

	return Decision{Directive: DirectiveRestart, Delay: delay}
}

// Reset 重置退避状态
func (s *ExponentialBackoffStrategy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentDelay = s.InitialDelay
	s.restartCount = 0
}

// ============== 默认策略和决策器 ==============

// DefaultDecider 默认决策器
// 对所有错误采取重启策略
func DefaultDecider(_ any) Directive {
	return DirectiveRestart
}

// StoppingDecider 停止决策器
func StoppingDecider(_ any) Directive {
	return DirectiveStop
}

// EscalatingDecider 上报决策器
func EscalatingDecider(_ any) Directive {
	return DirectiveEscalate
}

// ResumingDecider 恢复决策器
// 忽略错误继续运行
func ResumingDecider(_ any) Directive {
	return DirectiveResume
}

// DeciderFor 按名称返回决策器，未知名称返回 DefaultDecider
func DeciderFor(name string) Decider {
	switch name {
	case "stop":
		return StoppingDecider
	case "escalate":
		return EscalatingDecider
	case "resume":
		return ResumingDecider
	default:
		return DefaultDecider
	}
}

// DefaultSupervisorStrategy 默认监督策略
// 允许 3 次重启在 1 分钟内
func DefaultSupervisorStrategy() SupervisorStrategy {
	return NewOneForOneStrategy(3, time.Minute, DefaultDecider)
}

// StrictSupervisorStrategy 严格监督策略
// 任何失败都停止 Actor
func StrictSupervisorStrategy() SupervisorStrategy {
	return NewOneForOneStrategy(0, time.Second, StoppingDecider)
}

// LenientSupervisorStrategy 宽松监督策略
// 允许更多重启
func LenientSupervisorStrategy() SupervisorStrategy {
	return NewOneForOneStrategy(10, 5*time.Minute, DefaultDecider)
}

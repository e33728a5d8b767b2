package actor

import (
	"log/slog"
	"time"

	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/config"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/serial"
)

// SystemConfig 系统配置
type SystemConfig struct {
	// MailboxSize 全局邮箱大小
	MailboxSize int
	// DeadLetterSize 死信队列大小
	DeadLetterSize int
	// DefaultActorMailboxSize 默认 Actor 邮箱大小
	DefaultActorMailboxSize int
	// EnableDeadLetterLogging 是否记录死信
	EnableDeadLetterLogging bool
	// SerializeMessages 投递前对用户消息做序列化往返检查
	SerializeMessages bool
	// Serializers 序列化注册表，为空且开启检查时使用默认注册表
	Serializers *serial.Registry
	// ShutdownTimeout Shutdown 等待时长
	ShutdownTimeout time.Duration
	// DefaultStrategy 顶层 Actor 以及未配置策略的父 Actor 使用的监督策略
	DefaultStrategy SupervisorStrategy
	// Dispatchers 调度器名称到吞吐量
	Dispatchers map[string]int
	// Mailboxes 邮箱名称到容量
	Mailboxes map[string]int
	// PanicHandler panic 处理函数
	PanicHandler func(actor *PID, msg Message, err any)
	// Logger 自定义日志器
	Logger *slog.Logger
}

// DefaultSystemConfig 默认系统配置，取自内嵌默认配置资源
func DefaultSystemConfig() *SystemConfig {
	settings, err := config.MustDefault().Settings()
	if err != nil {
		panic(err)
	}
	return SystemConfigFromSettings(settings)
}

// SystemConfigFromSettings 由配置创建系统配置
func SystemConfigFromSettings(s *config.Settings) *SystemConfig {
	a := s.Actor

	dispatchers := make(map[string]int, len(a.Dispatchers)+1)
	for name, d := range a.Dispatchers {
		dispatchers[name] = d.Throughput
	}
	if _, ok := dispatchers["default"]; !ok {
		dispatchers["default"] = 0
	}

	mailboxes := make(map[string]int, len(a.Mailboxes))
	for name, m := range a.Mailboxes {
		mailboxes[name] = m.Capacity
	}

	defaultMailbox := a.DefaultMailboxSize
	if defaultMailbox <= 0 {
		defaultMailbox = 100
	}

	return &SystemConfig{
		MailboxSize:             a.MailboxSize,
		DeadLetterSize:          a.DeadLetterSize,
		DefaultActorMailboxSize: defaultMailbox,
		EnableDeadLetterLogging: a.DeadLetterLogging,
		SerializeMessages:       a.SerializeMessages,
		ShutdownTimeout:         a.ShutdownTimeout,
		DefaultStrategy:         strategyFromSettings(a.Supervisor),
		Dispatchers:             dispatchers,
		Mailboxes:               mailboxes,
	}
}

func strategyFromSettings(s config.SupervisorSettings) SupervisorStrategy {
	decider := DeciderFor(s.Decider)
	if s.Strategy == "all_for_one" {
		return NewAllForOneStrategy(s.MaxRestarts, s.Within, decider)
	}
	return NewOneForOneStrategy(s.MaxRestarts, s.Within, decider)
}

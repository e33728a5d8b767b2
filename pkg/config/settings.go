package config

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"
)

// Settings 配置的类型化视图
type Settings struct {
	Schema string        `koanf:"schema"`
	Log    LogSettings   `koanf:"log"`
	Actor  ActorSettings `koanf:"actor"`
}

// LogSettings 日志配置
type LogSettings struct {
	// Level debug / info / warn / error
	Level string `koanf:"level"`
	// Format text / json
	Format string `koanf:"format"`
}

// ActorSettings Actor 系统配置
type ActorSettings struct {
	MailboxSize        int           `koanf:"mailbox_size"`
	DeadLetterSize     int           `koanf:"dead_letter_size"`
	DefaultMailboxSize int           `koanf:"default_mailbox_size"`
	DeadLetterLogging  bool          `koanf:"dead_letter_logging"`
	SerializeMessages  bool          `koanf:"serialize_messages"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`

	Supervisor  SupervisorSettings            `koanf:"supervisor"`
	Dispatchers map[string]DispatcherSettings `koanf:"dispatchers"`
	Mailboxes   map[string]MailboxSettings    `koanf:"mailboxes"`
}

// SupervisorSettings 系统默认监督策略
type SupervisorSettings struct {
	// Strategy one_for_one / all_for_one
	Strategy    string        `koanf:"strategy"`
	MaxRestarts int           `koanf:"max_restarts"`
	Within      time.Duration `koanf:"within"`
	// Decider restart / stop / resume / escalate
	Decider string `koanf:"decider"`
}

// DispatcherSettings 命名调度器
type DispatcherSettings struct {
	Throughput int `koanf:"throughput"`
}

// MailboxSettings 命名邮箱
type MailboxSettings struct {
	Capacity int `koanf:"capacity"`
}

// Settings 解码为 [Settings]
func (c *Config) Settings() (*Settings, error) {
	var s Settings
	if err := c.Unmarshal("", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Unmarshal 把 path 下的配置解码到 out，时长支持 "30s" 形式
func (c *Config) Unmarshal(path string, out any) error {
	err := c.k.UnmarshalWithConf(path, out, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           out,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	})
	if err != nil {
		return fmt.Errorf("config: decode %q: %w", path, err)
	}
	return nil
}

// Overrides 命令行等来源的覆盖项，零值字段不覆盖
type Overrides struct {
	Log   LogOverrides   `koanf:"log,omitempty"`
	Actor ActorOverrides `koanf:"actor,omitempty"`
}

// LogOverrides 日志覆盖项
type LogOverrides struct {
	Level  string `koanf:"level,omitempty"`
	Format string `koanf:"format,omitempty"`
}

// ActorOverrides Actor 覆盖项
type ActorOverrides struct {
	DefaultMailboxSize int  `koanf:"default_mailbox_size,omitempty"`
	SerializeMessages  bool `koanf:"serialize_messages,omitempty"`
}

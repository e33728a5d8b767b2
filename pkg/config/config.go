// Package config 加载 Actor 系统配置
//
// 配置以 koanf 为基础分层叠加：内嵌默认资源 defaults/actor.yaml 在最底层，
// 其上可以叠加字符串、文件以及结构体覆盖项。文件可以监听变更热加载。
//
//	cfg, err := config.Default()
//	if err != nil {
//		return err
//	}
//	if err := cfg.LoadFile("seqactor.yaml"); err != nil {
//		return err
//	}
//	settings, err := cfg.Settings()
package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults/actor.yaml
var defaults embed.FS

// DefaultResource 内嵌默认配置的资源名
const DefaultResource = "defaults/actor.yaml"

// SchemaConstraint 支持的配置 schema 版本
const SchemaConstraint = "~1"

var (
	// ErrResourceMissing 配置资源不存在
	ErrResourceMissing = errors.New("config: resource missing")
	// ErrUnsupportedSchema schema 版本不受支持
	ErrUnsupportedSchema = errors.New("config: unsupported schema")
	// ErrUnknownFormat 未知的配置格式
	ErrUnknownFormat = errors.New("config: unknown format")
)

// Format 配置文本格式
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// FormatOf 按扩展名推断格式，无法识别时为 YAML
func FormatOf(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return JSON
	}
	return YAML
}

func parserFor(format Format) (koanf.Parser, error) {
	switch format {
	case YAML, "yml", "":
		return yaml.Parser(), nil
	case JSON:
		return json.Parser(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Config 分层配置
type Config struct {
	k *koanf.Koanf
}

// New 创建空配置
func New() *Config {
	return &Config{k: koanf.New(".")}
}

// Default 加载内嵌默认配置
func Default() (*Config, error) {
	return FromResource(defaults, DefaultResource)
}

// MustDefault 加载内嵌默认配置，失败时 panic
func MustDefault() *Config {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// FromResource 从 fsys 中读取名为 name 的配置资源
func FromResource(fsys fs.FS, name string) (*Config, error) {
	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrResourceMissing, name)
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	return ParseBytes(data, FormatOf(name))
}

// Parse 解析配置文本
func Parse(text string, format Format) (*Config, error) {
	return ParseBytes([]byte(text), format)
}

// ParseBytes 解析配置内容
func ParseBytes(data []byte, format Format) (*Config, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	c := New()
	if err := c.k.Load(rawbytes.Provider(data), parser); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", format, err)
	}
	if err := c.checkSchema(); err != nil {
		return nil, err
	}
	return c, nil
}

// checkSchema schema 缺省时不检查
func (c *Config) checkSchema() error {
	if !c.k.Exists("schema") {
		return nil
	}
	raw := c.k.String("schema")
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, raw, err)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SchemaConstraint)
	}
	return nil
}

// WithFallback 返回以 fallback 为底、c 叠加其上的新配置
func (c *Config) WithFallback(fallback *Config) *Config {
	merged := fallback.k.Copy()
	if err := merged.Merge(c.k); err != nil {
		return c
	}
	return &Config{k: merged}
}

// Merge 把 other 叠加到 c 之上
func (c *Config) Merge(other *Config) error {
	return c.k.Merge(other.k)
}

// LoadFile 把配置文件叠加到 c 之上
func (c *Config) LoadFile(path string) error {
	parser, err := parserFor(FormatOf(path))
	if err != nil {
		return err
	}
	if err := c.k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return c.checkSchema()
}

// Override 用结构体中非零字段覆盖配置，字段以 koanf 标签命名
func (c *Config) Override(v any) error {
	if err := c.k.Load(structs.Provider(v, "koanf"), nil); err != nil {
		return fmt.Errorf("config: override: %w", err)
	}
	return nil
}

// Watch 监听配置文件，变更时以 c 为底重新叠加并回调
//
// 返回的函数停止监听。
func (c *Config) Watch(path string, onChange func(*Config, error)) (func() error, error) {
	parser, err := parserFor(FormatOf(path))
	if err != nil {
		return nil, err
	}
	provider := file.Provider(path)
	base := c.k.Copy()

	err = provider.Watch(func(_ any, werr error) {
		if werr != nil {
			onChange(nil, fmt.Errorf("config: watch %s: %w", path, werr))
			return
		}
		next := &Config{k: base.Copy()}
		if lerr := next.k.Load(provider, parser); lerr != nil {
			onChange(nil, fmt.Errorf("config: reload %s: %w", path, lerr))
			return
		}
		if serr := next.checkSchema(); serr != nil {
			onChange(nil, serr)
			return
		}
		onChange(next, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	return provider.Unwatch, nil
}

// Marshal 以 format 输出有效配置
func (c *Config) Marshal(format Format) ([]byte, error) {
	parser, err := parserFor(format)
	if err != nil {
		return nil, err
	}
	return c.k.Marshal(parser)
}

// String 读取字符串
func (c *Config) String(path string) string { return c.k.String(path) }

// Int 读取整数
func (c *Config) Int(path string) int { return c.k.Int(path) }

// Bool 读取布尔值
func (c *Config) Bool(path string) bool { return c.k.Bool(path) }

// Duration 读取时长，支持 "30s" 形式
func (c *Config) Duration(path string) time.Duration { return c.k.Duration(path) }

// Exists 路径是否存在
func (c *Config) Exists(path string) bool { return c.k.Exists(path) }

// Keys 所有叶子路径
func (c *Config) Keys() []string { return c.k.Keys() }

// Sub 返回 path 下的子配置
func (c *Config) Sub(path string) *Config {
	return &Config{k: c.k.Cut(path)}
}

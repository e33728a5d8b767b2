package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultResource(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", cfg.String("schema"))
	assert.Equal(t, 100, cfg.Int("actor.default_mailbox_size"))
	assert.Equal(t, 30*time.Second, cfg.Duration("actor.shutdown_timeout"))
	assert.True(t, cfg.Exists("actor.dispatchers.default.throughput"))
	assert.False(t, cfg.Bool("actor.serialize_messages"))
}

func TestMustDefault(t *testing.T) {
	assert.NotPanics(t, func() { MustDefault() })
}

func TestFromResourceMissing(t *testing.T) {
	_, err := FromResource(fstest.MapFS{}, "nope.yaml")
	require.ErrorIs(t, err, ErrResourceMissing)
}

func TestFromResourceJSON(t *testing.T) {
	fsys := fstest.MapFS{
		"app.json": {Data: []byte(`{"actor": {"default_mailbox_size": 7}}`)},
	}
	cfg, err := FromResource(fsys, "app.json")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Int("actor.default_mailbox_size"))
}

func TestParseRejectsUnsupportedSchema(t *testing.T) {
	_, err := Parse(`schema: "2.1.0"`, YAML)
	require.ErrorIs(t, err, ErrUnsupportedSchema)

	_, err = Parse(`schema: "not-a-version"`, YAML)
	require.ErrorIs(t, err, ErrUnsupportedSchema)

	_, err = Parse(`schema: "1.4.2"`, YAML)
	require.NoError(t, err)
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("a = 1", Format("toml"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWithFallback(t *testing.T) {
	user, err := Parse(`
actor:
  default_mailbox_size: 8
log:
  level: debug
`, YAML)
	require.NoError(t, err)

	merged := user.WithFallback(MustDefault())
	assert.Equal(t, 8, merged.Int("actor.default_mailbox_size"))
	assert.Equal(t, "debug", merged.String("log.level"))
	assert.Equal(t, 10000, merged.Int("actor.mailbox_size"), "fallback value kept")

	// 原配置不受影响
	assert.False(t, user.Exists("actor.mailbox_size"))
}

func TestSettingsDecode(t *testing.T) {
	settings, err := MustDefault().Settings()
	require.NoError(t, err)

	assert.Equal(t, "info", settings.Log.Level)
	assert.Equal(t, 10000, settings.Actor.MailboxSize)
	assert.Equal(t, time.Minute, settings.Actor.Supervisor.Within)
	assert.Equal(t, "one_for_one", settings.Actor.Supervisor.Strategy)
	assert.Equal(t, 1, settings.Actor.Dispatchers["pinned"].Throughput)
	assert.Equal(t, 10000, settings.Actor.Mailboxes["large"].Capacity)
}

func TestOverride(t *testing.T) {
	cfg := MustDefault()
	require.NoError(t, cfg.Override(Overrides{
		Log:   LogOverrides{Level: "warn"},
		Actor: ActorOverrides{SerializeMessages: true},
	}))

	assert.Equal(t, "warn", cfg.String("log.level"))
	assert.Equal(t, "text", cfg.String("log.format"), "zero fields do not override")
	assert.True(t, cfg.Bool("actor.serialize_messages"))
	assert.Equal(t, 100, cfg.Int("actor.default_mailbox_size"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seqactor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("actor:\n  mailboxes:\n    tiny:\n      capacity: 2\n"), 0o600))

	cfg := MustDefault()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, 2, cfg.Int("actor.mailboxes.tiny.capacity"))
	assert.Equal(t, 100, cfg.Int("actor.mailboxes.default.capacity"))
}

func TestLoadFileMissing(t *testing.T) {
	err := MustDefault().LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	changes := make(chan *Config, 16)
	stop, err := MustDefault().Watch(path, func(c *Config, err error) {
		if err != nil {
			return
		}
		select {
		case changes <- c:
		default:
		}
	})
	require.NoError(t, err)
	defer func() { _ = stop() }()

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	// 写入过程中可能先观察到截断后的空文件
	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-changes:
			if c.String("log.level") != "error" {
				continue
			}
			assert.Equal(t, 100, c.Int("actor.default_mailbox_size"))
			return
		case <-deadline:
			t.Fatal("no reload observed")
		}
	}
}

func TestSub(t *testing.T) {
	sup := MustDefault().Sub("actor.supervisor")
	assert.Equal(t, 3, sup.Int("max_restarts"))
	assert.Equal(t, "restart", sup.String("decider"))
}

func TestMarshal(t *testing.T) {
	out, err := MustDefault().Marshal(JSON)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"default_mailbox_size"`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogSettings{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNewLoggerFallsBackToInfoText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogSettings{Level: "loud"}, &buf)

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

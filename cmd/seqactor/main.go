// Package main 运行可挂起行为的演示场景
//
// 子命令：
//   - run：在同一个 Actor 系统上并发运行场景 a（单条消息）、b（回显循环）、c（定时发送）
//   - config：打印叠加默认配置、配置文件和命令行覆盖后的有效配置
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "seqactor:", err)
		os.Exit(1)
	}
}

// app 命令共享的配置状态，由根命令的 Before 填充
type app struct {
	cfg      *config.Config
	settings *config.Settings
	logger   *slog.Logger
}

func newApp() *cli.Command {
	a := &app{}
	return &cli.Command{
		Name:      "seqactor",
		Usage:     "run suspendable behaviors on the actor runtime",
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML or JSON file layered over the built-in defaults",
				Sources: cli.EnvVars("SEQACTOR_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("SEQACTOR_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
			},
			&cli.BoolFlag{
				Name:  "serialize-messages",
				Usage: "round-trip user messages through the serializer registry before delivery",
			},
		},
		Before:   a.load,
		Commands: []*cli.Command{a.runCommand(), a.configCommand()},
	}
}

// load 默认配置 < 配置文件 < 命令行
func (a *app) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := config.Default()
	if err != nil {
		return ctx, err
	}
	if path := cmd.String("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return ctx, err
		}
	}
	if err := cfg.Override(config.Overrides{
		Log: config.LogOverrides{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Actor: config.ActorOverrides{
			SerializeMessages: cmd.Bool("serialize-messages"),
		},
	}); err != nil {
		return ctx, err
	}

	settings, err := cfg.Settings()
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg
	a.settings = settings
	a.logger = config.NewLogger(settings.Log, cmd.Root().ErrWriter)
	return ctx, nil
}

func (a *app) systemConfig() *actor.SystemConfig {
	sc := actor.SystemConfigFromSettings(a.settings)
	sc.Logger = a.logger
	return sc
}

func (a *app) runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run scenarios concurrently on one actor system",
		ArgsUsage: "[a|b|c|all]...",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
				Usage: "overall deadline for all scenarios",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Value: 100 * time.Millisecond,
				Usage: "delay of the scheduled send in scenario c",
			},
			&cli.StringFlag{
				Name:  "input",
				Value: "hello",
				Usage: "string measured by scenario a",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			names, err := selectScenarios(cmd.Args().Slice())
			if err != nil {
				return err
			}
			p := params{input: cmd.String("input"), delay: cmd.Duration("delay")}

			sys := actor.NewSystemWithConfig("seqactor", a.systemConfig())
			defer sys.Shutdown()

			ctx, cancel := context.WithTimeout(ctx, cmd.Duration("timeout"))
			defer cancel()

			reports := make([]string, len(names))
			g, gctx := errgroup.WithContext(ctx)
			for i, name := range names {
				g.Go(func() error {
					report, err := scenarios[name].run(gctx, sys, p)
					if err != nil {
						return fmt.Errorf("scenario %s: %w", name, err)
					}
					reports[i] = report
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.Root().Writer
			for i, name := range names {
				fmt.Fprintf(w, "%s: %s\n", name, reports[i])
			}
			return nil
		},
	}
}

func (a *app) configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "print the effective configuration",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Value: string(config.YAML),
				Usage: "yaml or json",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "print again whenever the --config file changes",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := config.Format(cmd.String("format"))
			w := cmd.Root().Writer

			if err := printConfig(w, a.cfg, format); err != nil {
				return err
			}
			if !cmd.Bool("watch") {
				return nil
			}

			path := cmd.Root().String("config")
			if path == "" {
				return errors.New("--watch requires --config")
			}
			updates := make(chan *config.Config, 1)
			unwatch, err := a.cfg.Watch(path, func(c *config.Config, err error) {
				if err != nil {
					a.logger.Warn("config reload failed", "path", path, "error", err)
					return
				}
				select {
				case updates <- c:
				default:
				}
			})
			if err != nil {
				return err
			}
			defer unwatch()

			for {
				select {
				case <-ctx.Done():
					return nil
				case c := <-updates:
					a.logger.Info("config reloaded", "path", path)
					if err := printConfig(w, c, format); err != nil {
						return err
					}
				}
			}
		},
	}
}

func selectScenarios(args []string) ([]string, error) {
	if len(args) == 0 || slices.Contains(args, "all") {
		return scenarioNames(), nil
	}
	var names []string
	for _, name := range args {
		if _, ok := scenarios[name]; !ok {
			return nil, fmt.Errorf("unknown scenario %q (want one of %v or all)", name, scenarioNames())
		}
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names, nil
}

func printConfig(w io.Writer, cfg *config.Config, format config.Format) error {
	data, err := cfg.Marshal(format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/actor"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/behavior"
	"github.com/lwmacct/251215-go-pkg-seqactor/pkg/cont"
)

// params 场景参数
type params struct {
	input string
	delay time.Duration
}

type scenario struct {
	run func(ctx context.Context, sys *actor.System, p params) (string, error)
}

var scenarios = map[string]scenario{
	"a": {run: runLength},
	"b": {run: runEcho},
	"c": {run: runTimer},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ============== a: 单条消息 ==============

func lengthBehavior(mb *behavior.Mailbox[string]) behavior.Behavior[string, int] {
	return cont.Bind(mb.Receive(), func(s string) behavior.Behavior[string, int] {
		mb.Reply(len(s))
		return cont.Return[behavior.Envelope[string]](len(s))
	})
}

// runLength 先发送类型不符的 42，再发送字符串，计算结束后宿主停止
func runLength(ctx context.Context, sys *actor.System, p params) (string, error) {
	in := actor.NewInbox(sys)
	defer in.Close()
	actor.Subscribe[*actor.UnhandledMessage](sys.EventStream(), in.Self())

	pid := behavior.Spawn(sys, "length", lengthBehavior)
	if pid == nil {
		return "", actor.ErrSystemNotRunning
	}
	in.Watch(pid)

	in.Send(pid, 42)
	if _, err := receive(ctx, in, func(m actor.Message) bool {
		u, ok := m.(*actor.UnhandledMessage)
		return ok && u.Recipient.ID == pid.ID
	}); err != nil {
		return "", fmt.Errorf("waiting for unhandled 42: %w", err)
	}

	in.Send(pid, p.input)
	reply, err := receive(ctx, in, func(m actor.Message) bool {
		_, ok := m.(int)
		return ok
	})
	if err != nil {
		return "", fmt.Errorf("waiting for length: %w", err)
	}
	if err := awaitTerminated(ctx, in, pid); err != nil {
		return "", err
	}
	return fmt.Sprintf("len(%q) = %d, 42 went to unhandled, %s stopped", p.input, reply, pid), nil
}

// ============== b: 回显循环 ==============

func echoBehavior(mb *behavior.Mailbox[string]) behavior.Behavior[string, int] {
	echoed := 0
	done := false
	loop := cont.While(func() bool { return !done }, func() behavior.Behavior[string, cont.Unit] {
		return cont.Map(mb.ReceiveEnvelope(), func(e behavior.Envelope[string]) cont.Unit {
			if e.Message == "stop" {
				done = true
				return cont.Unit{}
			}
			mb.Tell(e.Sender, e.Message)
			echoed++
			return cont.Unit{}
		})
	})
	return cont.Map(loop, func(cont.Unit) int {
		mb.Log().Debug("echo loop finished", "echoed", echoed)
		return echoed
	})
}

// runEcho 回显每条字符串，收到 "stop" 后结束
func runEcho(ctx context.Context, sys *actor.System, _ params) (string, error) {
	in := actor.NewInbox(sys)
	defer in.Close()

	pid := behavior.Spawn(sys, "echo", echoBehavior)
	if pid == nil {
		return "", actor.ErrSystemNotRunning
	}
	in.Watch(pid)

	words := []string{"ping", "pong", "stop"}
	for _, w := range words {
		in.Send(pid, w)
	}

	var echoes []string
	for range len(words) - 1 {
		msg, err := receive(ctx, in, func(m actor.Message) bool {
			_, ok := m.(string)
			return ok
		})
		if err != nil {
			return "", fmt.Errorf("waiting for echo: %w", err)
		}
		echoes = append(echoes, msg.(string))
	}
	if err := awaitTerminated(ctx, in, pid); err != nil {
		return "", err
	}
	return fmt.Sprintf("echoed %v, stopped on %q", echoes, "stop"), nil
}

// ============== c: 定时发送 ==============

func timerBehavior(delay time.Duration) func(*behavior.Mailbox[string]) behavior.Behavior[string, cont.Unit] {
	return func(mb *behavior.Mailbox[string]) behavior.Behavior[string, cont.Unit] {
		return cont.Map(mb.ReceiveEnvelope(), func(e behavior.Envelope[string]) cont.Unit {
			mb.ScheduleOnce(delay, e.Sender, "M")
			return cont.Unit{}
		})
	}
}

// runTimer 请求一次延迟发送，确认不早于延迟到达且只到达一次
func runTimer(ctx context.Context, sys *actor.System, p params) (string, error) {
	in := actor.NewInbox(sys)
	defer in.Close()

	pid := behavior.Spawn(sys, "timer", timerBehavior(p.delay))
	if pid == nil {
		return "", actor.ErrSystemNotRunning
	}

	isM := func(m actor.Message) bool { return m == "M" }
	start := time.Now()
	in.Send(pid, "go")

	if _, err := receive(ctx, in, isM); err != nil {
		return "", fmt.Errorf("waiting for scheduled message: %w", err)
	}
	elapsed := time.Since(start)
	if elapsed < p.delay {
		return "", fmt.Errorf("scheduled message arrived after %v, before the %v delay", elapsed, p.delay)
	}

	// 再等一个延迟，确认没有第二条
	if _, err := in.ReceiveWhere(isM, p.delay); !errors.Is(err, actor.ErrInboxTimeout) {
		return "", errors.New("scheduled message delivered more than once")
	}
	return fmt.Sprintf("M arrived after %v (delay %v), exactly once", elapsed.Round(time.Millisecond), p.delay), nil
}

// ============== 辅助 ==============

// receive 在 ctx 截止前等待满足 pred 的消息
func receive(ctx context.Context, in *actor.Inbox, pred func(actor.Message) bool) (actor.Message, error) {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return in.ReceiveWhere(pred, timeout)
}

func awaitTerminated(ctx context.Context, in *actor.Inbox, pid *actor.PID) error {
	_, err := receive(ctx, in, func(m actor.Message) bool {
		t, ok := m.(*actor.Terminated)
		return ok && t.Who.ID == pid.ID
	})
	if err != nil {
		return fmt.Errorf("waiting for %s to stop: %w", pid, err)
	}
	return nil
}

package actor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== 测试消息类型 ==============

type PingMessage struct{}

func (p *PingMessage) Kind() string { return "ping" }

type PongMessage struct{}

func (p *PongMessage) Kind() string { return "pong" }

type CountMessage struct {
	Value int
}

type EchoMessage struct {
	Text string
}

type PanicMessage struct{}

// ============== 测试 Actor ==============

type EchoActor struct {
	BaseActor
	received []Message
	mu       sync.Mutex
}

func (a *EchoActor) Receive(ctx *Context, msg Message) {
	a.mu.Lock()
	a.received = append(a.received, msg)
	a.mu.Unlock()

	if ctx.Sender != nil {
		ctx.Reply(msg)
	}
}

func (a *EchoActor) ReceivedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.received)
}

type CounterActor struct {
	BaseActor
	count int32
}

func (a *CounterActor) Receive(_ *Context, msg Message) {
	if _, ok := msg.(*CountMessage); ok {
		atomic.AddInt32(&a.count, 1)
	}
}

func (a *CounterActor) Count() int32 {
	return atomic.LoadInt32(&a.count)
}

type RequestResponseActor struct {
	BaseActor
}

func (a *RequestResponseActor) Receive(ctx *Context, msg Message) {
	switch m := msg.(type) {
	case *PingMessage:
		ctx.Reply(&PongMessage{})
	case *EchoMessage:
		ctx.Reply(&EchoMessage{Text: "Echo: " + m.Text})
	}
}

const wait = time.Second

func newTestSystem(t *testing.T) *System {
	t.Helper()
	sys := NewSystem(t.Name())
	t.Cleanup(func() { sys.ShutdownWithTimeout(2 * time.Second) })
	return sys
}

// ============== 系统基础 ==============

func TestNewSystem(t *testing.T) {
	sys := NewSystem("test")
	require.NotNil(t, sys)
	assert.Equal(t, "test", sys.Name())
	assert.True(t, sys.IsRunning())

	sys.Shutdown()
	assert.False(t, sys.IsRunning())
	assert.Nil(t, sys.Spawn(&EchoActor{}, "late"), "spawn after shutdown")
}

func TestSpawnActorReceivesStarted(t *testing.T) {
	sys := newTestSystem(t)

	actor := &EchoActor{}
	pid := sys.Spawn(actor, "echo")

	require.NotNil(t, pid)
	assert.Equal(t, "echo", pid.ID)
	assert.Eventually(t, func() bool { return actor.ReceivedCount() == 1 }, wait, 10*time.Millisecond)
}

func TestSpawnAnonymous(t *testing.T) {
	sys := newTestSystem(t)

	pid := sys.Spawn(&EchoActor{}, "")
	require.NotNil(t, pid)
	assert.True(t, strings.HasPrefix(pid.ID, "$"))
}

func TestSpawnWithoutProducer(t *testing.T) {
	sys := newTestSystem(t)
	assert.Nil(t, sys.SpawnWithProps(&Props{}, "empty"))
	assert.Nil(t, sys.SpawnWithProps(nil, "nil"))
}

func TestSendMessage(t *testing.T) {
	sys := newTestSystem(t)

	actor := &CounterActor{}
	pid := sys.Spawn(actor, "counter")

	for i := range 10 {
		pid.Tell(&CountMessage{Value: i})
	}

	assert.Eventually(t, func() bool { return actor.Count() == 10 }, wait, 10*time.Millisecond)
}

func TestTrySend(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(&EchoActor{}, "echo")
	assert.True(t, pid.TrySend(&PingMessage{}))

	detached := &PID{ID: "detached"}
	assert.False(t, detached.TrySend(&PingMessage{}))
}

func TestRequestResponse(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(&RequestResponseActor{}, "responder")

	resp, err := pid.Request(&PingMessage{}, wait)
	require.NoError(t, err)
	assert.IsType(t, &PongMessage{}, resp)

	resp, err = pid.Request(&EchoMessage{Text: "Hello"}, wait)
	require.NoError(t, err)
	assert.Equal(t, "Echo: Hello", resp.(*EchoMessage).Text)

	// future PID 在请求结束后注销
	assert.Equal(t, 1, sys.Count())
}

func TestRequestTimeout(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(ActorFunc(func(*Context, Message) {}), "silent")

	_, err := pid.Request(&PingMessage{}, 100*time.Millisecond)
	require.Error(t, err)

	var timeout *ResponseTimeout
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "silent", timeout.Target.ID)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, IsContextError(err))
	assert.NoError(t, IgnoreContextError(err))
}

func TestAsk(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(&RequestResponseActor{}, "responder")

	pong, err := Ask[*PongMessage](pid, &PingMessage{}, wait)
	require.NoError(t, err)
	assert.NotNil(t, pong)

	_, err = Ask[*EchoMessage](pid, &PingMessage{}, wait)
	require.ErrorIs(t, err, ErrUnexpectedReply)
}

func TestAskWithContextCancelled(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(ActorFunc(func(*Context, Message) {}), "silent")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AskWithContext[string](ctx, pid, "hello")
	require.ErrorIs(t, err, context.Canceled)
}

func TestAskReturnsFailureReply(t *testing.T) {
	sys := newTestSystem(t)
	errNope := errors.New("nope")
	pid := sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		if _, ok := msg.(string); ok {
			ctx.Reply(&Failure{Err: errNope})
		}
	}), "failing")

	_, err := Ask[int](pid, "go", wait)
	require.ErrorIs(t, err, errNope)
}

func TestBroadcast(t *testing.T) {
	sys := newTestSystem(t)

	actors := make([]*CounterActor, 5)
	for i := range actors {
		actors[i] = &CounterActor{}
		sys.Spawn(actors[i], fmt.Sprintf("counter-%d", i))
	}

	sys.Broadcast(&CountMessage{Value: 1})

	for i, actor := range actors {
		assert.Eventually(t, func() bool { return actor.Count() == 1 }, wait, 10*time.Millisecond,
			"actor %d should have received message", i)
	}
}

func TestBroadcastWithFilter(t *testing.T) {
	sys := newTestSystem(t)

	actorA := &CounterActor{}
	actorB := &CounterActor{}
	actorC := &CounterActor{}

	sys.Spawn(actorA, "counter-a")
	sys.Spawn(actorB, "counter-b")
	sys.Spawn(actorC, "other-c")

	sys.BroadcastWithFilter(&CountMessage{Value: 1}, func(pid *PID) bool {
		return strings.HasPrefix(pid.ID, "counter")
	})

	assert.Eventually(t, func() bool { return actorA.Count() == 1 && actorB.Count() == 1 }, wait, 10*time.Millisecond)
	assert.Equal(t, int32(0), actorC.Count())
}

func TestActorFunc(t *testing.T) {
	sys := newTestSystem(t)

	var received atomic.Int32
	pid := sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		if _, ok := msg.(*PingMessage); ok {
			received.Add(1)
		}
	}), "func-actor")

	pid.Tell(&PingMessage{})
	pid.Tell(&PingMessage{})
	pid.Tell(&PingMessage{})

	assert.Eventually(t, func() bool { return received.Load() == 3 }, wait, 10*time.Millisecond)
}

func TestStopActor(t *testing.T) {
	sys := newTestSystem(t)

	var notices []string
	var mu sync.Mutex
	pid := sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		mu.Lock()
		defer mu.Unlock()
		notices = append(notices, KindOf(msg))
	}), "echo")

	sys.Stop(pid)

	assert.Eventually(t, func() bool {
		_, ok := sys.GetActor("echo")
		return !ok
	}, wait, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"system.started", "system.stopping", "system.stopped"}, notices)
}

func TestStopGracefully(t *testing.T) {
	sys := newTestSystem(t)
	pid := sys.Spawn(&EchoActor{}, "echo")

	require.NoError(t, sys.StopGracefully(pid, wait))

	_, ok := sys.GetActor("echo")
	assert.False(t, ok)
}

func TestStopStopsChildren(t *testing.T) {
	sys := newTestSystem(t)

	var child *PID
	ready := make(chan struct{})
	parent := sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		if _, ok := msg.(*Started); ok {
			child = ctx.Spawn(&EchoActor{}, "child")
			close(ready)
		}
	}), "parent")
	<-ready

	require.NoError(t, sys.StopGracefully(parent, wait))
	assert.Eventually(t, func() bool {
		_, ok := sys.GetActor(child.ID)
		return !ok
	}, wait, 10*time.Millisecond)
}

func TestWatchReceivesTerminated(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	target := sys.Spawn(&EchoActor{}, "target")
	in.Watch(target)
	sys.Stop(target)

	term, ok := ReceiveAs[*Terminated](in, wait)
	require.True(t, ok)
	assert.Equal(t, "target", term.Who.ID)
}

func TestWatchMissingActorNotifiesImmediately(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	in.Watch(&PID{ID: "ghost", system: sys})

	term, ok := ReceiveAs[*Terminated](in, wait)
	require.True(t, ok)
	assert.Equal(t, "ghost", term.Who.ID)
}

func TestUnwatch(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	var watcher *PID
	target := sys.Spawn(&EchoActor{}, "target")
	watcher = sys.Spawn(ActorFunc(func(ctx *Context, msg Message) {
		switch m := msg.(type) {
		case *Started:
			ctx.Watch(target)
			ctx.Unwatch(target)
			ctx.Tell(in.Self(), "ready")
		case *Terminated:
			ctx.Tell(in.Self(), m)
		}
	}), "watcher")
	require.NotNil(t, watcher)

	_, err := in.ReceiveWhere(func(m Message) bool { return m == "ready" }, wait)
	require.NoError(t, err)

	sys.Stop(target)
	_, ok := ReceiveAs[*Terminated](in, 200*time.Millisecond)
	assert.False(t, ok)
}

func TestListActors(t *testing.T) {
	sys := newTestSystem(t)

	sys.Spawn(&EchoActor{}, "actor-1")
	sys.Spawn(&EchoActor{}, "actor-2")
	sys.Spawn(&EchoActor{}, "actor-3")

	assert.Len(t, sys.ListActors(), 3)
	assert.Equal(t, 3, sys.Count())
}

func TestStats(t *testing.T) {
	sys := newTestSystem(t)

	actor := &CounterActor{}
	pid := sys.Spawn(actor, "counter")

	for i := range 100 {
		pid.Tell(&CountMessage{Value: i})
	}
	assert.Eventually(t, func() bool { return actor.Count() == 100 }, wait, 10*time.Millisecond)

	stats := sys.Stats()
	assert.Equal(t, int64(1), stats.TotalActors)
	assert.GreaterOrEqual(t, stats.TotalMessages, int64(100))

	actorStats, ok := sys.ActorStats(pid)
	require.True(t, ok)
	assert.GreaterOrEqual(t, actorStats.MessagesHandled, int64(100))
	assert.Zero(t, actorStats.Errors)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "ping", KindOf(&PingMessage{}))
	assert.Equal(t, "*actor.CountMessage", KindOf(&CountMessage{}))
	assert.Equal(t, "string", KindOf("hi"))
	assert.Equal(t, "test.event", KindOf(NewSimpleMessage("test.event", nil)))
}

func TestIsLifecycle(t *testing.T) {
	assert.True(t, IsLifecycle(&Started{}))
	assert.True(t, IsLifecycle(&Restarting{}))
	assert.False(t, IsLifecycle(&Terminated{}))
	assert.False(t, IsLifecycle("Started"))
}

func TestPIDString(t *testing.T) {
	pid := &PID{ID: "test-actor"}
	assert.Equal(t, "test-actor", pid.String())

	pid2 := &PID{ID: "remote-actor", Address: "localhost:8080"}
	assert.Equal(t, "remote-actor@localhost:8080", pid2.String())

	var nilPID *PID
	assert.Equal(t, "<nil>", nilPID.String())
}

func TestSpawnDuplicate(t *testing.T) {
	sys := newTestSystem(t)

	pid1 := sys.Spawn(&EchoActor{}, "echo")
	pid2 := sys.Spawn(&EchoActor{}, "echo")

	assert.Same(t, pid1, pid2)
	assert.Equal(t, 1, sys.Count())
}

func TestPreStartRunsBeforeFirstMessage(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	pid := sys.SpawnWithProps(PropsFromProducer(func() Actor { return &orderedActor{probe: in.Self()} }), "ordered")
	pid.Tell("first")

	first, err := in.Receive(wait)
	require.NoError(t, err)
	assert.Equal(t, "prestart", first)
	second, err := in.Receive(wait)
	require.NoError(t, err)
	assert.Equal(t, "first", second)
}

type orderedActor struct {
	probe *PID
}

func (a *orderedActor) PreStart(ctx *Context) {
	ctx.Tell(a.probe, "prestart")
}

func (a *orderedActor) Receive(ctx *Context, msg Message) {
	if s, ok := msg.(string); ok {
		ctx.Tell(a.probe, s)
	}
}

func TestDeadLetterPublished(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)
	Subscribe[*DeadLetter](sys.EventStream(), in.Self())

	sys.Send(&PID{ID: "nobody", system: sys}, "lost")

	dl, ok := ReceiveAs[*DeadLetter](in, wait)
	require.True(t, ok)
	assert.Equal(t, "lost", dl.Message)
	assert.Equal(t, "nobody", dl.Target.ID)
}

func TestSerializeMessagesRoundTrip(t *testing.T) {
	cfg := DefaultSystemConfig()
	cfg.SerializeMessages = true
	sys := NewSystemWithConfig("serialize", cfg)
	defer sys.ShutdownWithTimeout(2 * time.Second)

	in := NewInbox(sys)
	original := []byte("payload")
	in.Send(in.Self(), original)

	got, err := in.Receive(wait)
	require.NoError(t, err)
	assert.Equal(t, original, got)

	// 不可序列化的消息原样投递
	in.Send(in.Self(), &EchoMessage{Text: "plain"})
	got, err = in.Receive(wait)
	require.NoError(t, err)
	assert.Equal(t, &EchoMessage{Text: "plain"}, got)
}

// ============== 并发测试 ==============

func TestConcurrentSend(t *testing.T) {
	sys := newTestSystem(t)

	actor := &CounterActor{}
	pid := sys.Spawn(actor, "counter")

	var wg sync.WaitGroup
	for range 100 {
		wg.Go(func() {
			pid.Tell(&CountMessage{Value: 1})
		})
	}
	wg.Wait()

	assert.Eventually(t, func() bool { return actor.Count() == 100 }, wait, 10*time.Millisecond)
}

func TestConcurrentSpawn(t *testing.T) {
	sys := newTestSystem(t)

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Go(func() {
			sys.Spawn(&EchoActor{}, fmt.Sprintf("actor-%d", i%25))
		})
	}
	wg.Wait()

	assert.Equal(t, 25, sys.Count())
}

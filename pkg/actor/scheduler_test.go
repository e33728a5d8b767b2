package actor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============== Scheduler ==============

func TestScheduleTellOnce(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)
	const delay = 50 * time.Millisecond

	start := time.Now()
	c := sys.Scheduler().ScheduleTellOnce(delay, in.Self(), "tick", nil)

	msg, err := in.Receive(wait)
	require.NoError(t, err)
	assert.Equal(t, "tick", msg)
	assert.GreaterOrEqual(t, time.Since(start), delay)

	require.NoError(t, c.Wait(context.Background()))
	assert.False(t, c.IsCancelled())

	_, err = in.Receive(3 * delay)
	assert.ErrorIs(t, err, ErrInboxTimeout)
}

func TestScheduleTellOnceWithSender(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)
	from := NewInbox(sys)

	sys.Scheduler().ScheduleTellOnce(10*time.Millisecond, in.Self(), "hello", from.Self())

	d, err := in.ReceiveDelivery(wait)
	require.NoError(t, err)
	assert.Equal(t, from.Self().ID, d.Sender.ID)
}

func TestCancelBeforeFire(t *testing.T) {
	sys := newTestSystem(t)

	var fired atomic.Bool
	c := sys.Scheduler().ScheduleOnce(100*time.Millisecond, func() { fired.Store(true) })
	c.Cancel()
	c.Cancel()

	require.NoError(t, c.Wait(context.Background()))
	assert.True(t, c.IsCancelled())
	time.Sleep(150 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestScheduleRepeatedly(t *testing.T) {
	sys := newTestSystem(t)

	var ticks atomic.Int32
	c := sys.Scheduler().ScheduleRepeatedly(0, 10*time.Millisecond, func() { ticks.Add(1) })

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, wait, 5*time.Millisecond)
	c.Cancel()
	<-c.Done()

	after := ticks.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestScheduledActionPanicStopsRepeating(t *testing.T) {
	sys := newTestSystem(t)

	var ticks atomic.Int32
	c := sys.Scheduler().ScheduleRepeatedly(0, 5*time.Millisecond, func() {
		if ticks.Add(1) == 2 {
			panic(errBoom)
		}
	})

	err := c.Wait(context.Background())
	require.ErrorIs(t, err, errBoom)
	assert.ErrorIs(t, c.Err(), errBoom)
	assert.Equal(t, int32(2), ticks.Load())
}

func TestWaitRespectsContext(t *testing.T) {
	sys := newTestSystem(t)
	c := sys.Scheduler().ScheduleOnce(time.Hour, func() {})
	defer c.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.Wait(ctx), context.DeadlineExceeded)
}

func TestShutdownCancelsPending(t *testing.T) {
	sys := NewSystem("shutdown")

	var fired atomic.Bool
	c := sys.Scheduler().ScheduleOnce(time.Hour, func() { fired.Store(true) })
	sys.ShutdownWithTimeout(time.Second)

	select {
	case <-c.Done():
	case <-time.After(wait):
		t.Fatal("schedule not cancelled by shutdown")
	}
	assert.True(t, c.IsCancelled())
	assert.False(t, fired.Load())
}

// ============== PipeTo ==============

func TestPipeToDeliversValue(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)
	sender := NewInbox(sys)

	PipeTo(context.Background(), func(context.Context) (int, error) { return 42, nil }, in.Self(), sender.Self())

	d, err := in.ReceiveDelivery(wait)
	require.NoError(t, err)
	assert.Equal(t, 42, d.Message)
	assert.Equal(t, sender.Self().ID, d.Sender.ID)
}

func TestPipeToDeliversFailure(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)
	sender := NewInbox(sys)

	PipeTo(context.Background(), func(context.Context) (string, error) { return "", errBoom }, in.Self(), sender.Self())

	d, err := in.ReceiveDelivery(wait)
	require.NoError(t, err)
	require.IsType(t, &Failure{}, d.Message)
	require.NotNil(t, d.Sender)
	assert.Equal(t, sender.Self().ID, d.Sender.ID)

	f := d.Message.(*Failure)
	assert.ErrorIs(t, f, errBoom)
	assert.Equal(t, "system.failure", KindOf(f))
}

func TestPipeToRecoversPanic(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	PipeTo(context.Background(), func(context.Context) (string, error) { panic("kaboom") }, in.Self(), nil)

	f, ok := ReceiveAs[*Failure](in, wait)
	require.True(t, ok)
	assert.Contains(t, f.Error(), "kaboom")

	_, err := in.Receive(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrInboxTimeout, "exactly one message per task")
}

func TestPipeToCancelledContext(t *testing.T) {
	sys := newTestSystem(t)
	in := NewInbox(sys)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	PipeTo(ctx, func(context.Context) (int, error) {
		ran.Store(true)
		return 1, nil
	}, in.Self(), nil)

	f, ok := ReceiveAs[*Failure](in, wait)
	require.True(t, ok)
	assert.True(t, errors.Is(f, context.Canceled))
	assert.False(t, ran.Load())
}

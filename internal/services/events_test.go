package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSubscriber struct {
	mu       sync.Mutex
	events   []ChangeEvent
	fail     bool
	closed   bool
	deadline time.Time
	// block, when set, stalls WriteJSON until it is closed.
	block chan struct{}
}

func (f *fakeSubscriber) WriteJSON(v interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, v.(ChangeEvent))
	return nil
}

func (f *fakeSubscriber) SetWriteDeadline(t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadline = t
	return nil
}

func (f *fakeSubscriber) writeDeadline() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deadline
}

func (f *fakeSubscriber) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSubscriber) received() []ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ChangeEvent(nil), f.events...)
}

func (f *fakeSubscriber) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestEventHub_FansOutAndStops(t *testing.T) {
	hub := NewEventHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	good := &fakeSubscriber{}
	broken := &fakeSubscriber{fail: true}
	hub.Add(good)
	hub.Add(broken)

	hub.Publish(KindPartner, ActionCreated, 12)

	require.Eventually(t, func() bool { return len(good.received()) == 1 }, time.Second, 5*time.Millisecond)
	event := good.received()[0]
	assert.Equal(t, KindPartner, event.Kind)
	assert.Equal(t, ActionCreated, event.Action)
	assert.Equal(t, int64(12), event.ID)
	assert.False(t, event.At.IsZero())
	assert.False(t, good.writeDeadline().IsZero())

	require.Eventually(t, broken.isClosed, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, hub.Len())

	cancel()
	<-done
	assert.True(t, good.isClosed())
	assert.Equal(t, 0, hub.Len())
}

func TestEventHub_StalledClientDoesNotBlockSubscriptions(t *testing.T) {
	hub := NewEventHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	stalled := &fakeSubscriber{block: make(chan struct{})}
	hub.Add(stalled)
	hub.Publish(KindPartner, ActionUpdated, 1)
	require.Eventually(t, func() bool { return !stalled.writeDeadline().IsZero() }, time.Second, 5*time.Millisecond)

	added := make(chan struct{})
	go func() {
		hub.Add(&fakeSubscriber{})
		hub.Remove(stalled)
		close(added)
	}()
	select {
	case <-added:
	case <-time.After(time.Second):
		t.Fatal("subscription changes blocked behind a stalled write")
	}
	assert.Equal(t, 1, hub.Len())

	close(stalled.block)
	cancel()
	<-done
}

func TestEventHub_BroadcastNeverBlocks(t *testing.T) {
	hub := NewEventHub(nil)

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(KindTag, ActionDeleted, int64(i))
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked without a running hub")
	}
}

func TestEventHub_NilIsNoop(t *testing.T) {
	var hub *EventHub
	assert.NotPanics(t, func() { hub.Publish(KindMedia, ActionCreated, 1) })
}

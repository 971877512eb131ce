package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	cmds []Command
}

func (r *recorder) observe(cmd Command, _ Result, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
}

func (r *recorder) snapshot() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.cmds...)
}

func startLoop(t *testing.T, debounce time.Duration, opts ...LoopOption) (*Loop, context.CancelFunc) {
	t.Helper()
	s, _ := newTestSession(t, fixtureProducts())
	l := NewLoop(s, debounce, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, cancel
}

func TestLoop_SubmitReturnsResult(t *testing.T) {
	l, _ := startLoop(t, 0)

	res, err := l.Submit(context.Background(), Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}})

	require.NoError(t, err)
	assert.Equal(t, "Rice added to cart!", res.Notice)
}

func TestLoop_SubmitReturnsRejection(t *testing.T) {
	l, _ := startLoop(t, 0)

	_, err := l.Submit(context.Background(), Command{Intent: IntentAddItem, Args: Args{ProductID: "p3"}})

	assert.True(t, IsCode(err, ErrCodeOutOfStock))
}

func TestLoop_RecoversFromPanics(t *testing.T) {
	l, _ := startLoop(t, 0)
	ctx := context.Background()

	err := l.Inspect(ctx, func(*Session) { panic("boom") })
	require.ErrorIs(t, err, ErrPanicked)
	assert.Contains(t, err.Error(), "boom")

	res, err := l.Submit(ctx, Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}})
	require.NoError(t, err)
	assert.Equal(t, "Rice added to cart!", res.Notice)

	var count int
	require.NoError(t, l.Inspect(ctx, func(s *Session) { count = s.Cart().ItemCount() }))
	assert.Equal(t, 1, count)
}

func TestLoop_ConcurrentSubmitsAreSerialised(t *testing.T) {
	l, _ := startLoop(t, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Submit(ctx, Command{Intent: IntentAddItem, Args: Args{ProductID: "p2"}})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int
	require.NoError(t, l.Inspect(ctx, func(s *Session) {
		count = s.Cart().ItemCount()
	}))
	assert.Equal(t, 50, count)
}

func TestLoop_EnqueuedCommandsApplyInOrder(t *testing.T) {
	rec := &recorder{}
	l, _ := startLoop(t, 0, WithObserver(rec.observe))

	require.True(t, l.Enqueue(Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}}))
	require.True(t, l.Enqueue(Command{Intent: IntentAddItem, Args: Args{ProductID: "p2"}}))
	require.True(t, l.Enqueue(Command{Intent: IntentRemoveItem, Args: Args{ProductID: "p1"}}))

	var ids []string
	require.NoError(t, l.Inspect(context.Background(), func(s *Session) {
		for _, line := range s.Cart().Lines() {
			ids = append(ids, line.ID)
		}
	}))

	assert.Equal(t, []string{"p2"}, ids)
	cmds := rec.snapshot()
	require.Len(t, cmds, 3)
	assert.Equal(t, IntentRemoveItem, cmds[2].Intent)
}

func TestLoop_TypeDebouncesSearch(t *testing.T) {
	rec := &recorder{}
	l, _ := startLoop(t, 30*time.Millisecond, WithObserver(rec.observe))

	for _, term := range []string{"p", "pl", "pla", "plan"} {
		l.Type(term)
	}

	require.Eventually(t, func() bool {
		return len(rec.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	// Give a stale timer the chance to fire.
	time.Sleep(60 * time.Millisecond)
	cmds := rec.snapshot()
	require.Len(t, cmds, 1)
	assert.Equal(t, IntentSearch, cmds[0].Intent)
	assert.Equal(t, "plan", cmds[0].Args.Term)

	var term string
	require.NoError(t, l.Inspect(context.Background(), func(s *Session) {
		term = s.View().Criteria.SearchTerm
	}))
	assert.Equal(t, "plan", term)
}

func TestLoop_TypeWithoutDebounceAppliesEachTerm(t *testing.T) {
	rec := &recorder{}
	l, _ := startLoop(t, 0, WithObserver(rec.observe))

	l.Type("r")
	l.Type("ri")

	require.NoError(t, l.Inspect(context.Background(), func(*Session) {}))
	assert.Len(t, rec.snapshot(), 2)
}

func TestLoop_CartIntentsAreNotDebounced(t *testing.T) {
	l, _ := startLoop(t, time.Hour)

	l.Type("rice")
	res, err := l.Submit(context.Background(), Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}})

	require.NoError(t, err)
	assert.Equal(t, "Rice added to cart!", res.Notice)
}

func TestLoop_StopRejectsNewWork(t *testing.T) {
	l, _ := startLoop(t, 0)

	l.Stop()

	_, err := l.Submit(context.Background(), Command{Intent: IntentClearCart})
	assert.ErrorIs(t, err, ErrLoopClosed)
	assert.False(t, l.Enqueue(Command{Intent: IntentClearCart}))
	assert.ErrorIs(t, l.Inspect(context.Background(), func(*Session) {}), ErrLoopClosed)
}

func TestLoop_RunReturnsOnCancel(t *testing.T) {
	s, _ := newTestSession(t, fixtureProducts())
	l := NewLoop(s, 0)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoop_RunDrainsQueuedWorkOnStop(t *testing.T) {
	s, _ := newTestSession(t, fixtureProducts())
	l := NewLoop(s, 0)

	require.True(t, l.Enqueue(Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}}))
	require.True(t, l.Enqueue(Command{Intent: IntentAddItem, Args: Args{ProductID: "p1"}}))
	l.Stop()

	require.NoError(t, l.Run(context.Background()))
	assert.Equal(t, 2, s.Cart().ItemCount())
}

func TestLoop_SubmitHonoursContext(t *testing.T) {
	s, _ := newTestSession(t, fixtureProducts())
	l := NewLoop(s, 0) // never run

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := l.Submit(ctx, Command{Intent: IntentClearCart})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	fired := make(chan struct{}, 1)

	d.Trigger(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("debounced function ran after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

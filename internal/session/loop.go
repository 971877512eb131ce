package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// ErrLoopClosed is returned for work submitted after the loop stopped.
var ErrLoopClosed = errors.New("session loop closed")

// ErrPanicked is returned for work that panicked on the loop goroutine. The
// loop keeps running.
var ErrPanicked = errors.New("session work panicked")

// DefaultSearchDebounce is the quiet period before typed search input is
// applied.
const DefaultSearchDebounce = 500 * time.Millisecond

// Observer is called on the loop goroutine after each command.
type Observer func(cmd Command, res Result, err error)

// Loop serialises access to a Session. Every command, from any goroutine,
// goes through one FIFO queue and is applied by the goroutine running Run.
type Loop struct {
	session  *Session
	queue    *requestQueue
	search   *Debouncer
	debounce time.Duration
	observer Observer
	logger   *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithObserver registers fn to be told about every applied command.
func WithObserver(fn Observer) LoopOption {
	return func(l *Loop) { l.observer = fn }
}

// NewLoop creates a loop around s. A debounce of zero or less applies
// typed search input immediately.
func NewLoop(s *Session, debounce time.Duration, opts ...LoopOption) *Loop {
	l := &Loop{
		session:  s,
		queue:    newRequestQueue(),
		search:   NewDebouncer(debounce),
		debounce: debounce,
		logger:   s.logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run applies queued work until ctx is cancelled or Stop is called. Work
// still queued at that point fails with ErrLoopClosed.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("session loop starting")
	defer l.drain()

	for {
		if r, ok := l.queue.TryDequeue(); ok {
			l.process(ctx, r)
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Debug("session loop stopping: context cancelled")
			l.queue.Close()
			return ctx.Err()

		case <-l.queue.Wait():
			if l.queue.Closed() && l.queue.Len() == 0 {
				l.logger.Debug("session loop stopping: closed")
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once queued work is applied.
func (l *Loop) Stop() {
	l.search.Stop()
	l.queue.Close()
}

// Submit applies cmd and waits for its result.
func (l *Loop) Submit(ctx context.Context, cmd Command) (Result, error) {
	r := request{cmd: cmd, reply: make(chan reply, 1)}
	if !l.queue.Enqueue(r) {
		return Result{}, ErrLoopClosed
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case rep := <-r.reply:
		return rep.result, rep.err
	}
}

// Enqueue queues cmd without waiting. Returns false once the loop is
// closed.
func (l *Loop) Enqueue(cmd Command) bool {
	return l.queue.Enqueue(request{cmd: cmd})
}

// Inspect runs fn on the loop goroutine, after all work queued before it.
// fn must not retain the session.
func (l *Loop) Inspect(ctx context.Context, fn func(*Session)) error {
	r := request{inspect: fn, reply: make(chan reply, 1)}
	if !l.queue.Enqueue(r) {
		return ErrLoopClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case rep := <-r.reply:
		return rep.err
	}
}

// Type records search input. Only the last term typed within the debounce
// period is applied, as a single Catalog.search command.
func (l *Loop) Type(term string) {
	cmd := Command{Intent: IntentSearch, Args: Args{Term: term}}
	if l.debounce <= 0 {
		l.Enqueue(cmd)
		return
	}
	l.search.Trigger(func() {
		if !l.Enqueue(cmd) {
			l.logger.Debug("search input dropped: loop closed", "term", term)
		}
	})
}

func (l *Loop) process(ctx context.Context, r request) {
	var rep reply
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("session work panicked",
				"intent", r.cmd.Intent, "panic", p, "stack", string(debug.Stack()))
			rep = reply{err: fmt.Errorf("%w: %v", ErrPanicked, p)}
		}
		if r.reply != nil {
			r.reply <- rep
		}
	}()

	if r.inspect != nil {
		r.inspect(l.session)
		return
	}

	res, err := l.session.Dispatch(ctx, r.cmd)
	if err != nil && r.reply == nil {
		l.logger.Warn("queued command rejected", "intent", r.cmd.Intent, "error", err)
	}
	if l.observer != nil {
		l.observer(r.cmd, res, err)
	}
	rep = reply{result: res, err: err}
}

// drain fails whatever is left in a closed queue.
func (l *Loop) drain() {
	l.search.Stop()
	l.queue.Close()
	for {
		r, ok := l.queue.TryDequeue()
		if !ok {
			return
		}
		if r.reply != nil {
			r.reply <- reply{err: ErrLoopClosed}
		}
	}
}

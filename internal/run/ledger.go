package run

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrLedgerClosed is returned when submitting to a closed ledger.
var ErrLedgerClosed = errors.New("run: ledger closed")

// Job is one unit of settlement work.
type Job func(ctx context.Context)

// Ledger runs settlement jobs one at a time, in submission order, on a
// single worker goroutine. Submitting never blocks the caller, and two
// writes to the same economy field can never interleave.
type Ledger struct {
	logger *log.Logger

	mu     sync.Mutex
	queue  []Job
	idle   chan struct{} // closed while the queue is empty and no job runs
	closed bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewLedger starts the worker. A nil logger discards output.
func NewLedger(logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ctx, cancel := context.WithCancel(context.Background())
	idle := make(chan struct{})
	close(idle)
	l := &Ledger{
		logger: logger,
		idle:   idle,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Submit queues job.
func (l *Ledger) Submit(job Job) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLedgerClosed
	}
	if len(l.queue) == 0 && l.isIdle() {
		l.idle = make(chan struct{})
	}
	l.queue = append(l.queue, job)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Drain waits until every submitted job has finished.
func (l *Ledger) Drain(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close drains pending jobs, then stops the worker. Jobs still running when
// ctx expires see their context cancelled.
func (l *Ledger) Close(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		<-l.done
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	err := l.Drain(ctx)
	l.cancel()
	<-l.done
	return err
}

// isIdle must be called with mu held.
func (l *Ledger) isIdle() bool {
	select {
	case <-l.idle:
		return true
	default:
		return false
	}
}

func (l *Ledger) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			if !l.isIdle() {
				close(l.idle)
			}
			l.mu.Unlock()
			select {
			case <-l.wake:
				continue
			case <-l.ctx.Done():
				return
			}
		}
		job := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.exec(job)
	}
}

func (l *Ledger) exec(job Job) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("run: settlement job panicked", "panic", r)
		}
	}()
	job(l.ctx)
}

package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/smallnest/chanx"
)

var ErrDispatcherClosed = errors.New("dispatcher is closed")

const defaultJobTimeout = 10 * time.Second

// Job is one unit of fan-out work, usually everything owed to one recipient.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher runs jobs from an unbounded queue on a fixed pool of workers.
// A failing or panicking job is logged and does not affect the others.
type Dispatcher struct {
	queue      *chanx.UnboundedChan[Job]
	workers    int
	jobTimeout time.Duration
	logger     *slog.Logger

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(workers int, logger *slog.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		queue:      chanx.NewUnboundedChan[Job](context.Background(), 64),
		workers:    workers,
		jobTimeout: defaultJobTimeout,
		logger:     logger.With(slog.String("caller", "Dispatcher")),
	}
}

func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for job := range d.queue.Out {
				d.run(job)
			}
		}()
	}
	d.logger.Info("dispatcher started", slog.Int("workers", d.workers))
}

func (d *Dispatcher) run(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("fan-out job panicked",
				slog.String("job", job.Name), slog.Any("panic", r))
		}
	}()

	if err := job.Run(ctx); err != nil {
		d.logger.Error("fan-out job failed",
			slog.String("job", job.Name), slog.Any("error", err))
	}
}

// Submit queues job without blocking.
func (d *Dispatcher) Submit(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return fmt.Errorf("%s: %w", job.Name, ErrDispatcherClosed)
	}
	d.queue.In <- job
	return nil
}

// Len is the number of jobs waiting for a worker.
func (d *Dispatcher) Len() int {
	return d.queue.Len()
}

// Close stops accepting jobs and waits for the queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue.In)
	started := d.started
	d.mu.Unlock()

	if !started {
		// Nobody reads Out, so drain it here to let chanx's goroutine exit.
		for range d.queue.Out {
		}
		return
	}
	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

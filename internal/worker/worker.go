package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of periodic maintenance. It reports how many rows or
// items it touched so the worker can log something useful.
type Task struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) (int64, error)
}

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often every task is run
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of tasks running at once
	MaxConcurrency int

	// RunOnStart runs every task once before waiting for the first tick
	RunOnStart bool
}

// Worker runs maintenance tasks on a fixed interval until its context is
// cancelled.
type Worker struct {
	config Config
	tasks  []Task
	logger *slog.Logger

	// running guards against overlapping runs of the same task
	mu      sync.Mutex
	running map[string]bool
}

// NewWorker creates a new background worker
func NewWorker(config Config, logger *slog.Logger, tasks ...Task) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Hour
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		config:  config,
		tasks:   tasks,
		logger:  logger.With("worker_id", config.WorkerID),
		running: make(map[string]bool),
	}
}

// Start blocks until ctx is done, running every task on each tick. It
// waits for in-flight tasks before returning.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("starting worker",
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
		"tasks", len(w.tasks),
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.config.MaxConcurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	dispatch := func() {
		for _, task := range w.tasks {
			if !w.claim(task.Name) {
				w.logger.Debug("task still running, skipping", "task", task.Name)
				continue
			}
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				w.release(task.Name)
				return
			}
			wg.Add(1)
			go func(t Task) {
				defer wg.Done()
				defer func() { <-sem }()
				defer w.release(t.Name)
				w.runTask(ctx, t)
			}(task)
		}
	}

	if w.config.RunOnStart {
		dispatch()
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			dispatch()
		}
	}
}

// RunOnce runs every task sequentially and returns the first error.
func (w *Worker) RunOnce(ctx context.Context) error {
	for _, task := range w.tasks {
		if err := w.runTask(ctx, task); err != nil {
			return fmt.Errorf("task %s: %w", task.Name, err)
		}
	}
	return nil
}

func (w *Worker) runTask(ctx context.Context, t Task) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := t.Run(ctx)
	if err != nil {
		w.logger.Error("task failed",
			"task", t.Name,
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}

	w.logger.Info("task completed",
		"task", t.Name,
		"affected", n,
		"duration", time.Since(start),
	)
	return nil
}

func (w *Worker) claim(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running[name] {
		return false
	}
	w.running[name] = true
	return true
}

func (w *Worker) release(name string) {
	w.mu.Lock()
	delete(w.running, name)
	w.mu.Unlock()
}

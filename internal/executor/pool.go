package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a unit of work bound to one endpoint
type Task[T any] struct {
	// Endpoint identifies which Docker endpoint this task targets
	Endpoint string

	// Execute runs the task; the endpoint's client is bound by closure
	Execute func(ctx context.Context) (T, error)
}

// Result is the outcome of one task
type Result[T any] struct {
	// Endpoint identifies which endpoint this result is from
	Endpoint string

	// Data is the task's return value; zero if Error is set
	Data T

	// Error is the task error, or the cancellation that kept it from running
	Error error

	// Duration is how long the task took to execute
	Duration time.Duration
}

// Pool runs tasks across endpoints with bounded concurrency. A pool is
// filled with Submit and drained once with Execute.
type Pool[T any] struct {
	workers int

	// mu protects tasks
	mu    sync.Mutex
	tasks []Task[T]

	logger  *slog.Logger
	running atomic.Bool
}

// NewPool creates a worker pool; workers <= 0 means 1
func NewPool[T any](workers int, logger *slog.Logger) *Pool[T] {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Pool[T]{
		workers: workers,
		tasks:   make([]Task[T], 0),
		logger:  logger,
	}
}

// Submit queues a task. It fails while the pool is running or when the task
// is incomplete.
func (p *Pool[T]) Submit(task Task[T]) error {
	if p.running.Load() {
		return fmt.Errorf("pool is running, cannot submit new tasks")
	}

	if task.Endpoint == "" {
		return fmt.Errorf("task must have an endpoint name")
	}

	if task.Execute == nil {
		return fmt.Errorf("task must have an execute function")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.tasks = append(p.tasks, task)
	p.logger.Debug("task submitted", "endpoint", task.Endpoint, "total_tasks", len(p.tasks))

	return nil
}

// Execute runs every submitted task and returns results in submission order
func (p *Pool[T]) Execute(ctx context.Context) []Result[T] {
	return p.ExecuteWithProgress(ctx, nil)
}

// ExecuteWithProgress is Execute with a callback invoked after each task
// completes with (completed, total) counts
func (p *Pool[T]) ExecuteWithProgress(ctx context.Context, progressFn func(completed, total int)) []Result[T] {
	if !p.running.CompareAndSwap(false, true) {
		p.logger.Error("pool is already running")
		return []Result[T]{}
	}
	defer p.running.Store(false)

	p.mu.Lock()
	tasks := make([]Task[T], len(p.tasks))
	copy(tasks, p.tasks)
	p.mu.Unlock()

	taskCount := len(tasks)
	if taskCount == 0 {
		p.logger.Debug("no tasks to execute")
		return []Result[T]{}
	}

	p.logger.Debug("starting task execution", "workers", p.workers, "tasks", taskCount)
	startTime := time.Now()

	taskChan := make(chan int, taskCount)
	results := make([]Result[T], taskCount)
	done := make([]bool, taskCount)

	var (
		wg        sync.WaitGroup
		completed atomic.Int32
	)

	workerCount := min(p.workers, taskCount)
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			for {
				select {
				case <-ctx.Done():
					p.logger.Debug("worker stopping due to context cancellation", "worker_id", workerID)
					return
				case index, ok := <-taskChan:
					if !ok {
						return
					}

					// each index is owned by exactly one worker
					results[index] = p.executeTask(ctx, tasks[index])
					done[index] = true

					count := completed.Add(1)
					if progressFn != nil {
						progressFn(int(count), taskCount)
					}
				}
			}
		}(i)
	}

	for i := range tasks {
		taskChan <- i
	}
	close(taskChan)

	wg.Wait()

	for i := range results {
		if !done[i] {
			results[i] = Result[T]{
				Endpoint: tasks[i].Endpoint,
				Error:    fmt.Errorf("task not executed: %w", ctx.Err()),
			}
		}
	}

	p.logger.Debug("task execution completed",
		"total", taskCount,
		"failed", CountFailed(results),
		"duration", time.Since(startTime))

	return results
}

func (p *Pool[T]) executeTask(ctx context.Context, task Task[T]) Result[T] {
	startTime := time.Now()

	select {
	case <-ctx.Done():
		return Result[T]{
			Endpoint: task.Endpoint,
			Error:    fmt.Errorf("task cancelled before execution: %w", ctx.Err()),
		}
	default:
	}

	data, err := task.Execute(ctx)
	duration := time.Since(startTime)

	if err != nil {
		p.logger.Warn("task failed", "endpoint", task.Endpoint, "error", err, "duration", duration)
	} else {
		p.logger.Debug("task succeeded", "endpoint", task.Endpoint, "duration", duration)
	}

	return Result[T]{
		Endpoint: task.Endpoint,
		Data:     data,
		Error:    err,
		Duration: duration,
	}
}

// Run is the one-shot form: it submits one task per endpoint and executes them
func Run[T any](ctx context.Context, workers int, endpoints []string, logger *slog.Logger,
	fn func(ctx context.Context, endpoint string) (T, error)) []Result[T] {
	pool := NewPool[T](workers, logger)
	for _, endpoint := range endpoints {
		name := endpoint
		if err := pool.Submit(Task[T]{
			Endpoint: name,
			Execute: func(ctx context.Context) (T, error) {
				return fn(ctx, name)
			},
		}); err != nil {
			var zero T
			return []Result[T]{{Endpoint: name, Data: zero, Error: err}}
		}
	}
	return pool.Execute(ctx)
}

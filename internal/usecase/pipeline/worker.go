package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

// Consumer is the queue side the worker pool attaches to. The returned
// stop function drains the consumer.
type Consumer interface {
	Consume(ctx context.Context, handler func(ctx context.Context, task repositories.TaskRequest) error) (func(), error)
}

// Worker runs the pipeline stage handlers off the task queue. The
// semaphore caps concurrent stage executions; the queue keeps
// unprocessed tasks until a slot frees up.
type Worker struct {
	queue    Consumer
	service  *Service
	workers  int
	logger   *zap.Logger
	stopFn   func()
	stopOnce sync.Once
	wg       sync.WaitGroup
	sem      chan struct{}
	nextID   int
	mu       sync.Mutex
}

// NewWorker creates a worker pool of the given size
func NewWorker(queue Consumer, service *Service, workers int, logger *zap.Logger) *Worker {
	if workers <= 0 {
		workers = 3
	}
	return &Worker{
		queue:   queue,
		service: service,
		workers: workers,
		logger:  logger,
		sem:     make(chan struct{}, workers),
	}
}

// Start attaches to the queue and begins processing
func (w *Worker) Start(ctx context.Context) error {
	stopFn, err := w.queue.Consume(ctx, w.handle)
	if err != nil {
		return err
	}
	w.stopFn = stopFn

	w.logger.Info("👷 Pipeline workers started", zap.Int("workers", w.workers))
	return nil
}

func (w *Worker) handle(ctx context.Context, task repositories.TaskRequest) error {
	w.sem <- struct{}{}
	defer func() { <-w.sem }()

	w.wg.Add(1)
	defer w.wg.Done()

	w.mu.Lock()
	w.nextID++
	workerID := w.nextID % w.workers
	w.mu.Unlock()

	taskCtx, cancel := jobcontext.TaskBegin(ctx, task.ID, task.Name, task.MeetingID, workerID)
	defer cancel()

	start := time.Now()
	err := w.service.HandleTask(taskCtx, task)
	elapsed := time.Since(start)

	if err != nil {
		w.logger.Error("task failed",
			zap.String("task", task.Name),
			zap.Int64("meeting_id", task.MeetingID),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return err
	}

	w.logger.Info("task done",
		zap.String("task", task.Name),
		zap.Int64("meeting_id", task.MeetingID),
		zap.Duration("elapsed", elapsed))
	return nil
}

// Stop drains the consumer and waits for in-flight tasks
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		if w.stopFn != nil {
			w.stopFn()
		}
		w.wg.Wait()
		w.logger.Info("👷 Pipeline workers stopped")
	})
}

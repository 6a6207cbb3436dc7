package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
)

// Dispatcher decides which pipeline task follows a status transition
// and enqueues it. It performs no deduplication of its own: the guarded
// status advance is the only idempotency gate, so the caller must only
// invoke Dispatch after winning that claim.
type Dispatcher struct {
	queue  repositories.TaskQueue
	logger *zap.Logger
}

// NewDispatcher creates a pipeline dispatcher
func NewDispatcher(queue repositories.TaskQueue, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{queue: queue, logger: logger}
}

// TaskFor maps a newly reached status to the task it triggers, if any
func TaskFor(to entities.MeetingStatus) (string, bool) {
	switch to {
	case entities.MeetingStatusTranscribing:
		return repositories.TaskTranscribe, true
	case entities.MeetingStatusSummarizing:
		return repositories.TaskSummarize, true
	}
	return "", false
}

// Dispatch enqueues the task for a transition the caller has already
// won. Returns the task name dispatched, or empty when the target
// status triggers no work.
func (d *Dispatcher) Dispatch(ctx context.Context, meetingID int64, to entities.MeetingStatus) (string, error) {
	taskName, ok := TaskFor(to)
	if !ok {
		return "", nil
	}
	return taskName, d.enqueue(ctx, meetingID, taskName)
}

// DispatchFollowup enqueues the notification stage, triggered manually
// rather than by a status transition
func (d *Dispatcher) DispatchFollowup(ctx context.Context, meetingID int64) error {
	return d.enqueue(ctx, meetingID, repositories.TaskSendFollowup)
}

func (d *Dispatcher) enqueue(ctx context.Context, meetingID int64, taskName string) error {
	task := repositories.TaskRequest{
		ID:        uuid.NewString(),
		Name:      taskName,
		MeetingID: meetingID,
	}
	if err := d.queue.Enqueue(ctx, task); err != nil {
		d.logger.Error("failed to enqueue task",
			zap.String("task", taskName),
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
		return err
	}
	return nil
}

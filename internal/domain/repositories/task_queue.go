package repositories

import "context"

// TaskQueue is the at-least-once dispatch boundary between webhook
// handling and pipeline workers. Enqueue is fire-and-forget; nothing
// awaits the task result. Redelivery on worker crash is expected, so
// every consumer must be safe to re-run.
type TaskQueue interface {
	Enqueue(ctx context.Context, task TaskRequest) error
}

// TaskRequest names a unit of pipeline work for one meeting
type TaskRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MeetingID int64  `json:"meeting_id"`
}

// Task names understood by the pipeline workers
const (
	TaskTranscribe   = "pipeline.transcribe"
	TaskSummarize    = "pipeline.summarize"
	TaskSendFollowup = "pipeline.send_followup"
)

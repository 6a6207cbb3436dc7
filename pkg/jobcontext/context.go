package jobcontext

import (
	"context"
	"strings"
	"time"
)

type KeyContext string

var (
	keyTaskID    KeyContext = "task_id"
	keyTaskName  KeyContext = "task_name"
	keyMeetingID KeyContext = "meeting_id"
	keyWorkerID  KeyContext = "worker_id"
	keyTaskStart KeyContext = "task_start_time"
)

// TaskMetadata holds metadata for one pipeline task execution
type TaskMetadata struct {
	TaskID    string
	TaskName  string
	MeetingID int64
	WorkerID  int
	StartTime time.Time
}

// TaskBegin initializes a task context with metadata and a timeout.
// The timeout bounds one stage execution end to end; transcription of
// a long meeting dominates, hence the generous default.
func TaskBegin(parentCtx context.Context, taskID, taskName string, meetingID int64, workerID int) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, 15*time.Minute)

	ctx = context.WithValue(ctx, keyTaskID, taskID)
	ctx = context.WithValue(ctx, keyTaskName, taskName)
	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyWorkerID, workerID)
	ctx = context.WithValue(ctx, keyTaskStart, time.Now())

	return ctx, cancel
}

// GetTaskID extracts the task id from context
func GetTaskID(ctx context.Context) (string, bool) {
	taskID, ok := ctx.Value(keyTaskID).(string)
	return taskID, ok
}

// GetTaskName extracts the task name from context
func GetTaskName(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(keyTaskName).(string)
	return name, ok
}

// GetMeetingID extracts the meeting id from context
func GetMeetingID(ctx context.Context) int64 {
	meetingID, ok := ctx.Value(keyMeetingID).(int64)
	if !ok {
		return 0
	}
	return meetingID
}

// GetWorkerID extracts the worker id from context
func GetWorkerID(ctx context.Context) int {
	workerID, ok := ctx.Value(keyWorkerID).(int)
	if !ok {
		return -1
	}
	return workerID
}

// GetTaskStartTime extracts the task start time from context
func GetTaskStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyTaskStart).(time.Time)
	return startTime, ok
}

// GetTaskMetadata extracts all task metadata from context
func GetTaskMetadata(ctx context.Context) *TaskMetadata {
	taskID, _ := GetTaskID(ctx)
	taskName, _ := GetTaskName(ctx)
	startTime, _ := GetTaskStartTime(ctx)

	return &TaskMetadata{
		TaskID:    taskID,
		TaskName:  taskName,
		MeetingID: GetMeetingID(ctx),
		WorkerID:  GetWorkerID(ctx),
		StartTime: startTime,
	}
}

// IsRetryableError checks if an error should trigger a redelivery.
// Retryable errors include: network errors, timeouts, deadlocks, rate
// limits, server errors. Client-side errors (bad payloads, missing
// resources, preconditions) are not retryable.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") { // deadlock_detected
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}

// CalculateBackoff calculates exponential backoff duration
func CalculateBackoff(attempt int, baseDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// 2^attempt * baseDelay, max 60 seconds
	backoff := time.Duration(1<<uint(attempt)) * baseDelay

	maxBackoff := 60 * time.Second
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	return backoff
}

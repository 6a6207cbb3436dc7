package lifecycle

import (
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
)

// The state machine owns the forward ordering of meeting statuses.
// Transitions are idempotent monotone advances: a target at or behind
// the current rank is a no-op absorbed silently, which is what makes
// duplicate and out-of-order provider deliveries harmless. The actual
// claim is a guarded UPDATE in the repository; this package only decides
// which source statuses may legally move to a given target.

// streaming_ended sits strictly below recording_completed: a stopped
// stream with captured audio continues down the normal pipeline once
// the completion webhook lands.
var statusRank = map[entities.MeetingStatus]int{
	entities.MeetingStatusPending:            0,
	entities.MeetingStatusRecording:          1,
	entities.MeetingStatusStreaming:          1,
	entities.MeetingStatusStreamingEnded:     2,
	entities.MeetingStatusRecordingCompleted: 3,
	entities.MeetingStatusTranscribing:       4,
	entities.MeetingStatusTranscribed:        5,
	entities.MeetingStatusSummarizing:        6,
	entities.MeetingStatusCompleted:          7,
}

// Rank returns the forward position of a status. Failure states have no
// rank; they are reachable from anywhere except completed and left only
// by an explicit retry.
func Rank(status entities.MeetingStatus) (int, bool) {
	r, ok := statusRank[status]
	return r, ok
}

// ForwardSources lists every status allowed to advance into the target.
// Any forward status strictly below the target's rank qualifies, so a
// completion event whose predecessors were lost still lands. Failure
// states are excluded: recovery goes through explicit retry sources.
func ForwardSources(to entities.MeetingStatus) []entities.MeetingStatus {
	targetRank, ok := statusRank[to]
	if !ok {
		return nil
	}
	var sources []entities.MeetingStatus
	for status, rank := range statusRank {
		if rank < targetRank {
			sources = append(sources, status)
		}
	}
	return sources
}

// RetrySources maps a failure status to the in-flight status a fresh
// externally-triggered retry re-enters
var retryTargets = map[entities.MeetingStatus]entities.MeetingStatus{
	entities.MeetingStatusTranscriptionFailed: entities.MeetingStatusTranscribing,
	entities.MeetingStatusSummarizationFailed: entities.MeetingStatusSummarizing,
}

// RetryTarget returns the in-flight status a retry from the given
// failure state re-enters, or false when the state is not retryable
func RetryTarget(from entities.MeetingStatus) (entities.MeetingStatus, bool) {
	to, ok := retryTargets[from]
	return to, ok
}

// FailureFor maps an in-flight stage to its failure status
func FailureFor(stage entities.MeetingStatus) entities.MeetingStatus {
	switch stage {
	case entities.MeetingStatusTranscribing:
		return entities.MeetingStatusTranscriptionFailed
	case entities.MeetingStatusSummarizing:
		return entities.MeetingStatusSummarizationFailed
	}
	return entities.MeetingStatusBotFailed
}

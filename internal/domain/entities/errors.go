package entities

import "errors"

// Domain sentinel errors. Adapters map these onto transport errors;
// usecases branch on them with errors.Is.
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrTranscriptNotFound = errors.New("transcript not found")
	ErrSummaryNotFound    = errors.New("summary not found")

	// ErrUnresolvableEvent means no meeting could be identified for a
	// webhook. Not a failure: the event is answered "ignored".
	ErrUnresolvableEvent = errors.New("event does not resolve to a known meeting")

	// ErrAudioUnresolved means every resolution strategy exhausted
	// without producing a download location.
	ErrAudioUnresolved = errors.New("no audio location could be resolved")

	// ErrStatusConflict means a guarded status advance found the meeting
	// already past (or outside) the expected source states.
	ErrStatusConflict = errors.New("meeting status changed concurrently")
)

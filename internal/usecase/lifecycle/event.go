package lifecycle

import (
	"crypto/sha256"
	"encoding/hex"
)

// EventKind classifies a normalized provider webhook
type EventKind string

const (
	KindBotStarted         EventKind = "bot_started"
	KindRecordingCompleted EventKind = "recording_completed"
	KindBotFailed          EventKind = "bot_failed"
	// KindAmbiguous carries identifiers and candidates but no clear
	// lifecycle meaning; handled as a best-effort status probe.
	KindAmbiguous EventKind = "ambiguous"
)

// LifecycleEvent is the canonical form every provider webhook is parsed
// into. Immutable once built; discarded after handling except for the
// digest kept in the dedupe window.
type LifecycleEvent struct {
	Kind EventKind

	// Correlation, in resolution priority order: the external meeting
	// id we handed out at bot start, then provider identifiers that
	// need a directory lookup.
	ExternalMeetingID   string
	ProviderBotID       string
	ProviderRecordingID string

	// Candidate audio URLs in extraction order; may be empty. The
	// first one wins at resolution time, the rest stay as fallbacks.
	CandidateAudioURLs []string

	// ErrorDetail carries the provider's failure description for
	// bot_failed events
	ErrorDetail string

	// RawPayloadDigest identifies the exact inbound payload for
	// dedupe and audit
	RawPayloadDigest string
}

// Digest computes the dedupe key for a raw webhook body
func Digest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

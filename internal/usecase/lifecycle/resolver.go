package lifecycle

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
)

// Resolver turns partial recording metadata into one usable download
// URL. Strategy cascade: webhook-embedded candidates, then a recording
// fetch, then a bot fetch enumerating its recordings. The regional
// endpoint cascade lives inside the provider client; a definitive "not
// found" from the provider ends a strategy, it does not fail the event.
type Resolver struct {
	provider ProviderAPI
	logger   *zap.Logger
}

// NewResolver creates an audio location resolver
func NewResolver(provider ProviderAPI, logger *zap.Logger) *Resolver {
	return &Resolver{provider: provider, logger: logger}
}

// Resolve returns the best download URL for the event, or
// entities.ErrAudioUnresolved when every strategy exhausts. Callers
// still advance the meeting; they just withhold transcription until a
// later event or retry supplies audio.
func (r *Resolver) Resolve(ctx context.Context, event *LifecycleEvent) (string, error) {
	if len(event.CandidateAudioURLs) > 0 {
		return event.CandidateAudioURLs[0], nil
	}

	if event.ProviderRecordingID != "" {
		recording, err := r.provider.GetRecording(ctx, event.ProviderRecordingID)
		if err != nil {
			if !errors.Is(err, recall.ErrNotFound) {
				return "", err
			}
			r.logger.Info("recording not found at provider",
				zap.String("recording_id", event.ProviderRecordingID))
		} else if urls := recording.CandidateURLs(); len(urls) > 0 {
			return urls[0], nil
		}
	}

	if event.ProviderBotID != "" {
		bot, err := r.provider.GetBot(ctx, event.ProviderBotID)
		if err != nil {
			if !errors.Is(err, recall.ErrNotFound) {
				return "", err
			}
			r.logger.Info("bot not found at provider",
				zap.String("bot_id", event.ProviderBotID))
		} else {
			for i := range bot.Recordings {
				if urls := bot.Recordings[i].CandidateURLs(); len(urls) > 0 {
					return urls[0], nil
				}
			}
		}
	}

	return "", entities.ErrAudioUnresolved
}

// ResolveForMeeting re-resolves audio for a stored meeting, used on
// stage retries. A materialized local file takes unconditional
// precedence; a stored URL is treated as expired and resolved afresh
// from the provider identifiers.
func (r *Resolver) ResolveForMeeting(ctx context.Context, meeting *entities.Meeting) (string, error) {
	event := &LifecycleEvent{Kind: KindAmbiguous}
	if meeting.ProviderRecordingID != nil {
		event.ProviderRecordingID = *meeting.ProviderRecordingID
	}
	if meeting.ProviderBotID != nil {
		event.ProviderBotID = *meeting.ProviderBotID
	}

	url, err := r.Resolve(ctx, event)
	if err == nil {
		return url, nil
	}
	if errors.Is(err, entities.ErrAudioUnresolved) && meeting.AudioURL != nil && *meeting.AudioURL != "" {
		// Last resort: replay the stored URL and let the download
		// surface its expiry
		return *meeting.AudioURL, nil
	}
	return "", err
}

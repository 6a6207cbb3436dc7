package lifecycle

import (
	"context"
	"io"

	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
)

// ProviderAPI is the slice of the bot provider consumed by the
// lifecycle engine. Implemented by recall.Client; faked in tests.
type ProviderAPI interface {
	StartBot(ctx context.Context, meetingURL, botName, correlationID string) (*recall.Bot, error)
	StopBot(ctx context.Context, botID string) error
	GetBot(ctx context.Context, botID string) (*recall.Bot, error)
	GetRecording(ctx context.Context, recordingID string) (*recall.Recording, error)
	DownloadAudio(ctx context.Context, url string) (io.ReadCloser, string, error)
}

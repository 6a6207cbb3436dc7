package lifecycle

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
)

// fakeProvider implements ProviderAPI for tests
type fakeProvider struct {
	bots       map[string]*recall.Bot
	recordings map[string]*recall.Recording

	startBotErr error
	stopBotErr  error
	getBotErr   error

	startedBots  []string
	stoppedBots  []string
	downloadBody string
	downloadErr  error
	downloadURLs []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		bots:       make(map[string]*recall.Bot),
		recordings: make(map[string]*recall.Recording),
	}
}

func (f *fakeProvider) StartBot(_ context.Context, meetingURL, botName, correlationID string) (*recall.Bot, error) {
	if f.startBotErr != nil {
		return nil, f.startBotErr
	}
	bot := &recall.Bot{
		ID:         "bot-" + correlationID,
		MeetingURL: meetingURL,
		Metadata:   map[string]string{"meeting_id": correlationID},
	}
	f.bots[bot.ID] = bot
	f.startedBots = append(f.startedBots, bot.ID)
	return bot, nil
}

func (f *fakeProvider) StopBot(_ context.Context, botID string) error {
	if f.stopBotErr != nil {
		return f.stopBotErr
	}
	f.stoppedBots = append(f.stoppedBots, botID)
	return nil
}

func (f *fakeProvider) GetBot(_ context.Context, botID string) (*recall.Bot, error) {
	if f.getBotErr != nil {
		return nil, f.getBotErr
	}
	bot, ok := f.bots[botID]
	if !ok {
		return nil, recall.ErrNotFound
	}
	return bot, nil
}

func (f *fakeProvider) GetRecording(_ context.Context, recordingID string) (*recall.Recording, error) {
	rec, ok := f.recordings[recordingID]
	if !ok {
		return nil, recall.ErrNotFound
	}
	return rec, nil
}

func (f *fakeProvider) DownloadAudio(_ context.Context, url string) (io.ReadCloser, string, error) {
	f.downloadURLs = append(f.downloadURLs, url)
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	body := f.downloadBody
	if body == "" {
		body = "audio-bytes"
	}
	return io.NopCloser(strings.NewReader(body)), "audio/mpeg", nil
}

func TestResolve_DirectCandidateWins(t *testing.T) {
	provider := newFakeProvider()
	r := NewResolver(provider, zap.NewNop())

	event := &LifecycleEvent{
		CandidateAudioURLs:  []string{"https://x/first.mp3", "https://x/second.mp3"},
		ProviderRecordingID: "rec-1",
	}

	url, err := r.Resolve(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, "https://x/first.mp3", url)
}

func TestResolve_RecordingFetch(t *testing.T) {
	provider := newFakeProvider()
	provider.recordings["rec-1"] = &recall.Recording{
		ID:          "rec-1",
		DownloadURL: "https://x/fetched.mp3",
	}
	r := NewResolver(provider, zap.NewNop())

	url, err := r.Resolve(context.Background(), &LifecycleEvent{ProviderRecordingID: "rec-1"})
	require.NoError(t, err)
	assert.Equal(t, "https://x/fetched.mp3", url)
}

func TestResolve_BotFallback(t *testing.T) {
	provider := newFakeProvider()
	provider.bots["b1"] = &recall.Bot{
		ID: "b1",
		Recordings: []recall.Recording{
			{ID: "rec-empty"},
			{ID: "rec-2", MediaShortcuts: &recall.MediaShortcuts{
				AudioMixed: &recall.MediaShortcut{Data: recall.MediaData{DownloadURL: "https://x/y"}},
			}},
		},
	}
	r := NewResolver(provider, zap.NewNop())

	// Recording fetch 404s; bot enumeration finds the shortcut URL
	url, err := r.Resolve(context.Background(), &LifecycleEvent{
		ProviderRecordingID: "rec-gone",
		ProviderBotID:       "b1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://x/y", url)
}

func TestResolve_Exhausted(t *testing.T) {
	provider := newFakeProvider()
	r := NewResolver(provider, zap.NewNop())

	_, err := r.Resolve(context.Background(), &LifecycleEvent{
		ProviderRecordingID: "rec-gone",
		ProviderBotID:       "bot-gone",
	})
	assert.ErrorIs(t, err, entities.ErrAudioUnresolved)
}

func TestResolve_ProviderErrorPropagates(t *testing.T) {
	provider := newFakeProvider()
	provider.getBotErr = errors.New("provider down")
	r := NewResolver(provider, zap.NewNop())

	_, err := r.Resolve(context.Background(), &LifecycleEvent{ProviderBotID: "b1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrAudioUnresolved)
}

func TestResolveForMeeting_FreshResolution(t *testing.T) {
	provider := newFakeProvider()
	provider.recordings["rec-1"] = &recall.Recording{ID: "rec-1", AudioURL: "https://x/fresh.mp3"}
	r := NewResolver(provider, zap.NewNop())

	recID := "rec-1"
	staleURL := "https://x/stale.mp3"
	meeting := &entities.Meeting{ID: 42, ProviderRecordingID: &recID, AudioURL: &staleURL}

	url, err := r.ResolveForMeeting(context.Background(), meeting)
	require.NoError(t, err)
	assert.Equal(t, "https://x/fresh.mp3", url)
}

func TestResolveForMeeting_StoredURLFallback(t *testing.T) {
	provider := newFakeProvider()
	r := NewResolver(provider, zap.NewNop())

	recID := "rec-gone"
	storedURL := "https://x/stored.mp3"
	meeting := &entities.Meeting{ID: 42, ProviderRecordingID: &recID, AudioURL: &storedURL}

	url, err := r.ResolveForMeeting(context.Background(), meeting)
	require.NoError(t, err)
	assert.Equal(t, "https://x/stored.mp3", url)
}

func TestResolveForMeeting_NothingLeft(t *testing.T) {
	provider := newFakeProvider()
	r := NewResolver(provider, zap.NewNop())

	_, err := r.ResolveForMeeting(context.Background(), &entities.Meeting{ID: 42})
	assert.ErrorIs(t, err, entities.ErrAudioUnresolved)
}

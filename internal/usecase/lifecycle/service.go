package lifecycle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
)

// WebhookResult is what an inbound webhook is answered with
type WebhookResult string

const (
	ResultAccepted WebhookResult = "accepted"
	ResultIgnored  WebhookResult = "ignored"
)

// Service is the reconciliation engine: it takes normalized provider
// events, finds the meeting they belong to, advances the meeting's
// canonical status and chains the next pipeline stage. Per-meeting
// serialization comes from the guarded UPDATEs in the repository, so
// concurrent deliveries for one meeting never double-dispatch. Network
// calls (directory, resolver) happen before the status claim and never
// inside it.
type Service struct {
	meetings     repositories.MeetingRepository
	transcripts  repositories.TranscriptRepository
	summaries    repositories.SummaryRepository
	participants repositories.ParticipantRepository

	normalizer *Normalizer
	directory  *Directory
	resolver   *Resolver
	dispatcher *Dispatcher
	provider   ProviderAPI

	// Exact-duplicate webhook suppression. Purely an optimization:
	// correctness never depends on it, the monotone status advance
	// absorbs whatever slips through.
	dedupe *gocache.Cache

	logger *zap.Logger
}

// NewService wires the reconciliation engine
func NewService(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	summaries repositories.SummaryRepository,
	participants repositories.ParticipantRepository,
	normalizer *Normalizer,
	directory *Directory,
	resolver *Resolver,
	dispatcher *Dispatcher,
	provider ProviderAPI,
	dedupeWindow time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:     meetings,
		transcripts:  transcripts,
		summaries:    summaries,
		participants: participants,
		normalizer:   normalizer,
		directory:    directory,
		resolver:     resolver,
		dispatcher:   dispatcher,
		provider:     provider,
		dedupe:       gocache.New(dedupeWindow, 2*dedupeWindow),
		logger:       logger,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// HandleWebhook processes one raw provider webhook body end to end
func (s *Service) HandleWebhook(ctx context.Context, body []byte) (WebhookResult, error) {
	event, err := s.normalizer.Normalize(body)
	if err != nil {
		return "", err
	}

	if _, seen := s.dedupe.Get(event.RawPayloadDigest); seen {
		s.logger.Info("duplicate webhook suppressed",
			zap.String("digest", event.RawPayloadDigest))
		return ResultIgnored, nil
	}
	s.dedupe.SetDefault(event.RawPayloadDigest, struct{}{})

	return s.handleEvent(ctx, event)
}

func (s *Service) handleEvent(ctx context.Context, event *LifecycleEvent) (WebhookResult, error) {
	meeting, err := s.resolveMeeting(ctx, event)
	if err != nil {
		return "", err
	}
	if meeting == nil {
		s.logger.Info("unresolvable event ignored",
			zap.String("kind", string(event.Kind)),
			zap.String("bot_id", event.ProviderBotID),
			zap.String("recording_id", event.ProviderRecordingID))
		return ResultIgnored, nil
	}

	if meeting.IsTerminal() {
		s.logger.Info("event for completed meeting ignored",
			zap.Int64("meeting_id", meeting.ID),
			zap.String("kind", string(event.Kind)))
		return ResultAccepted, nil
	}

	if err := s.recordCorrelation(meeting, event); err != nil {
		return "", err
	}

	switch event.Kind {
	case KindBotStarted:
		return s.onBotStarted(meeting)
	case KindRecordingCompleted:
		return s.onRecordingCompleted(ctx, meeting, event)
	case KindBotFailed:
		return s.onBotFailed(meeting, event)
	default:
		// Status probe with no lifecycle meaning
		return ResultAccepted, nil
	}
}

// resolveMeeting finds the meeting an event belongs to, in priority
// order: explicit correlation id, bot directory, recording id. Returns
// (nil, nil) for unresolvable events. An explicit correlation id that
// matches no row is an error; the sender believes we know the meeting.
func (s *Service) resolveMeeting(ctx context.Context, event *LifecycleEvent) (*entities.Meeting, error) {
	if event.ExternalMeetingID != "" {
		meeting, err := s.meetings.GetByExternalMeetingID(event.ExternalMeetingID)
		if err != nil {
			return nil, err
		}
		if meeting != nil {
			return meeting, nil
		}
	}

	if event.ProviderBotID != "" {
		meetingID, found, err := s.directory.Resolve(ctx, event.ProviderBotID)
		if err != nil {
			return nil, err
		}
		if found {
			return s.meetings.GetByID(meetingID)
		}
	}

	if event.ProviderRecordingID != "" {
		meeting, err := s.meetings.GetByProviderRecordingID(event.ProviderRecordingID)
		if err != nil {
			return nil, err
		}
		if meeting != nil {
			return meeting, nil
		}
	}

	if event.ExternalMeetingID != "" {
		return nil, apperrors.ErrMeetingNotFound(event.ExternalMeetingID)
	}
	return nil, nil
}

func (s *Service) recordCorrelation(meeting *entities.Meeting, event *LifecycleEvent) error {
	botID := event.ProviderBotID
	if meeting.ProviderBotID != nil && *meeting.ProviderBotID == botID {
		botID = ""
	}
	recordingID := event.ProviderRecordingID
	if meeting.ProviderRecordingID != nil && *meeting.ProviderRecordingID == recordingID {
		recordingID = ""
	}
	if botID == "" && recordingID == "" {
		return nil
	}
	return s.meetings.SetCorrelation(meeting.ID, botID, recordingID)
}

func (s *Service) onBotStarted(meeting *entities.Meeting) (WebhookResult, error) {
	target := entities.MeetingStatusRecording
	if meeting.Status == entities.MeetingStatusStreaming {
		// Streaming path already in flight; nothing to advance
		return ResultAccepted, nil
	}

	advanced, err := s.meetings.AdvanceStatus(meeting.ID, ForwardSources(target), target)
	if err != nil {
		return "", err
	}
	if !advanced {
		s.logger.Info("bot-started behind current status, absorbed",
			zap.Int64("meeting_id", meeting.ID),
			zap.String("status", string(meeting.Status)))
	}
	return ResultAccepted, nil
}

func (s *Service) onRecordingCompleted(ctx context.Context, meeting *entities.Meeting, event *LifecycleEvent) (WebhookResult, error) {
	// Resolve audio before touching status; this is the slow network
	// part and must not hold the per-meeting claim.
	audioURL := ""
	if meeting.AudioFilePath != nil && *meeting.AudioFilePath != "" {
		// Already materialized locally; never replaced by a URL
		audioURL = *meeting.AudioFilePath
	} else {
		url, err := s.resolver.Resolve(ctx, event)
		switch {
		case err == nil:
			audioURL = url
			if err := s.meetings.SetAudioLocation(meeting.ID, url, ""); err != nil {
				return "", err
			}
		case errors.Is(err, entities.ErrAudioUnresolved):
			s.logger.Warn("recording completed without resolvable audio",
				zap.Int64("meeting_id", meeting.ID))
		default:
			// Every region exhausted on transient failures. The capture
			// still finished, so advance and leave the meeting blocked
			// on audio; a later event or retry resolves fresh.
			s.logger.Warn("audio resolution failed, advancing without audio",
				zap.Int64("meeting_id", meeting.ID),
				zap.Error(err))
		}
	}

	if _, err := s.meetings.AdvanceStatus(meeting.ID,
		ForwardSources(entities.MeetingStatusRecordingCompleted),
		entities.MeetingStatusRecordingCompleted); err != nil {
		return "", err
	}

	if audioURL == "" {
		// Blocked on audio: a later event or retry supplies it
		return ResultAccepted, nil
	}

	// The transcribing claim is the single dispatch gate: of any number
	// of concurrent deliveries, exactly one wins this UPDATE.
	claimed, err := s.meetings.AdvanceStatus(meeting.ID,
		[]entities.MeetingStatus{entities.MeetingStatusRecordingCompleted},
		entities.MeetingStatusTranscribing)
	if err != nil {
		return "", err
	}
	if !claimed {
		s.logger.Info("transcription already claimed, duplicate absorbed",
			zap.Int64("meeting_id", meeting.ID))
		return ResultAccepted, nil
	}

	if _, err := s.dispatcher.Dispatch(ctx, meeting.ID, entities.MeetingStatusTranscribing); err != nil {
		// Dispatch lost after claiming: fall back to the failure state
		// so an external retry can re-enter the stage
		if _, markErr := s.meetings.MarkFailed(meeting.ID,
			entities.MeetingStatusTranscriptionFailed, "enqueue failed: "+err.Error()); markErr != nil {
			s.logger.Error("failed to record dispatch failure", zap.Error(markErr))
		}
		return "", apperrors.ErrQueueFailed(repositories.TaskTranscribe, err)
	}

	s.logger.Info("🎙️ Transcription dispatched",
		zap.Int64("meeting_id", meeting.ID),
		zap.String("audio_url", audioURL))
	return ResultAccepted, nil
}

func (s *Service) onBotFailed(meeting *entities.Meeting, event *LifecycleEvent) (WebhookResult, error) {
	reason := event.ErrorDetail
	if reason == "" {
		reason = "bot failed"
	}
	marked, err := s.meetings.MarkFailed(meeting.ID, entities.MeetingStatusBotFailed, reason)
	if err != nil {
		return "", err
	}
	if marked {
		s.logger.Warn("bot failed",
			zap.Int64("meeting_id", meeting.ID),
			zap.String("reason", reason))
	}
	return ResultAccepted, nil
}

// CreateMeeting creates a meeting record, stores its participants and
// joins a provider bot into the call. The correlation id handed to the
// provider is what later webhooks echo back.
func (s *Service) CreateMeeting(ctx context.Context, title, meetingURL, botName string, participants []*entities.Participant) (*entities.Meeting, error) {
	meeting := entities.NewMeeting(title, meetingURL)
	externalID := uuid.NewString()
	meeting.ExternalMeetingID = &externalID

	if err := s.meetings.Create(meeting); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	for _, p := range participants {
		p.MeetingID = meeting.ID
	}
	if err := s.participants.SaveAll(participants); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	bot, err := s.provider.StartBot(ctx, meetingURL, botName, externalID)
	if err != nil {
		if _, markErr := s.meetings.MarkFailed(meeting.ID, entities.MeetingStatusBotFailed, err.Error()); markErr != nil {
			s.logger.Error("failed to record bot start failure", zap.Error(markErr))
		}
		return nil, apperrors.ErrProviderFailed("start bot", err)
	}

	if err := s.meetings.SetCorrelation(meeting.ID, bot.ID, ""); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	meeting.ProviderBotID = &bot.ID

	// Recorded before any webhook for this bot can arrive
	s.directory.Put(ctx, bot.ID, meeting.ID)

	s.logger.Info("🤖 Bot started",
		zap.Int64("meeting_id", meeting.ID),
		zap.String("bot_id", bot.ID))
	return meeting, nil
}

// GetMeeting returns a meeting or a not-found error
func (s *Service) GetMeeting(id int64) (*entities.Meeting, error) {
	meeting, err := s.meetings.GetByID(id)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	if meeting == nil {
		return nil, apperrors.ErrMeetingNotFound(formatID(id))
	}
	return meeting, nil
}

// ListMeetings returns meetings newest first
func (s *Service) ListMeetings(limit, offset int) ([]*entities.Meeting, error) {
	meetings, err := s.meetings.List(limit, offset)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	return meetings, nil
}

// DeleteMeeting removes a meeting and its artifacts. An in-flight
// pipeline task for it completes naturally; its writes then miss.
func (s *Service) DeleteMeeting(ctx context.Context, id int64) error {
	meeting, err := s.GetMeeting(id)
	if err != nil {
		return err
	}
	if meeting.ProviderBotID != nil {
		s.directory.Forget(ctx, *meeting.ProviderBotID)
	}
	if err := s.meetings.Delete(id); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	return nil
}

// MeetingStatusInfo is the status projection returned by the API
type MeetingStatusInfo struct {
	MeetingID     int64                  `json:"meeting_id"`
	Status        entities.MeetingStatus `json:"status"`
	HasAudio      bool                   `json:"has_audio"`
	HasTranscript bool                   `json:"has_transcript"`
	HasSummary    bool                   `json:"has_summary"`
	LastError     string                 `json:"last_error,omitempty"`
}

// GetStatus reports where a meeting sits in the pipeline
func (s *Service) GetStatus(id int64) (*MeetingStatusInfo, error) {
	meeting, err := s.GetMeeting(id)
	if err != nil {
		return nil, err
	}

	transcript, err := s.transcripts.GetByMeetingID(id)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	summary, err := s.summaries.GetByMeetingID(id)
	if err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}

	info := &MeetingStatusInfo{
		MeetingID:     meeting.ID,
		Status:        meeting.Status,
		HasAudio:      meeting.HasAudio(),
		HasTranscript: transcript != nil && transcript.Text != "",
		HasSummary:    summary != nil && summary.Text != "",
	}
	if meeting.LastError != nil {
		info.LastError = *meeting.LastError
	}
	return info, nil
}

// RetryStage re-enters the in-flight stage a failed meeting fell out
// of. Only failure states are retryable; the retry converges back onto
// the forward path.
func (s *Service) RetryStage(ctx context.Context, id int64) (entities.MeetingStatus, error) {
	meeting, err := s.GetMeeting(id)
	if err != nil {
		return "", err
	}

	target, ok := RetryTarget(meeting.Status)
	if !ok {
		return "", apperrors.ErrMeetingInvalidState(formatID(id), string(meeting.Status))
	}

	claimed, err := s.meetings.AdvanceStatus(id, []entities.MeetingStatus{meeting.Status}, target)
	if err != nil {
		return "", apperrors.ErrDBQueryFailed(err)
	}
	if !claimed {
		return "", apperrors.ErrMeetingInvalidState(formatID(id), string(meeting.Status))
	}

	if _, err := s.dispatcher.Dispatch(ctx, id, target); err != nil {
		if _, markErr := s.meetings.MarkFailed(id, FailureFor(target), "enqueue failed: "+err.Error()); markErr != nil {
			s.logger.Error("failed to record dispatch failure", zap.Error(markErr))
		}
		return "", apperrors.ErrQueueFailed(string(target), err)
	}

	s.logger.Info("🔁 Stage retry dispatched",
		zap.Int64("meeting_id", id),
		zap.String("stage", string(target)))
	return target, nil
}

// TriggerFollowup dispatches the followup email for a meeting. Guarded:
// a live summary and at least one participant must exist, otherwise the
// request is rejected synchronously and nothing is dispatched.
func (s *Service) TriggerFollowup(ctx context.Context, id int64) error {
	if _, err := s.GetMeeting(id); err != nil {
		return err
	}

	summary, err := s.summaries.GetByMeetingID(id)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if summary == nil || summary.Text == "" {
		return apperrors.ErrPreconditionFailed("meeting has no summary yet")
	}

	participants, err := s.participants.ListByMeetingID(id)
	if err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	if len(participants) == 0 {
		return apperrors.ErrPreconditionFailed("meeting has no participants to notify")
	}

	if err := s.dispatcher.DispatchFollowup(ctx, id); err != nil {
		return apperrors.ErrQueueFailed(repositories.TaskSendFollowup, err)
	}
	return nil
}

// StartStreaming creates a meeting on the streaming path and joins a
// bot; the meeting enters streaming instead of recording
func (s *Service) StartStreaming(ctx context.Context, title, meetingURL, botName string, participants []*entities.Participant) (*entities.Meeting, error) {
	meeting, err := s.CreateMeeting(ctx, title, meetingURL, botName, participants)
	if err != nil {
		return nil, err
	}

	if _, err := s.meetings.AdvanceStatus(meeting.ID,
		[]entities.MeetingStatus{entities.MeetingStatusPending},
		entities.MeetingStatusStreaming); err != nil {
		return nil, apperrors.ErrDBQueryFailed(err)
	}
	meeting.Status = entities.MeetingStatusStreaming
	return meeting, nil
}

// StopStreaming ends the streaming session. Captured audio, if any,
// continues down the normal pipeline from here via webhooks.
func (s *Service) StopStreaming(ctx context.Context, id int64) error {
	meeting, err := s.GetMeeting(id)
	if err != nil {
		return err
	}
	if meeting.Status != entities.MeetingStatusStreaming {
		return apperrors.ErrMeetingInvalidState(formatID(id), string(meeting.Status))
	}

	if meeting.ProviderBotID != nil {
		if err := s.provider.StopBot(ctx, *meeting.ProviderBotID); err != nil {
			return apperrors.ErrProviderFailed("stop bot", err)
		}
	}

	if _, err := s.meetings.AdvanceStatus(id,
		[]entities.MeetingStatus{entities.MeetingStatusStreaming},
		entities.MeetingStatusStreamingEnded); err != nil {
		return apperrors.ErrDBQueryFailed(err)
	}
	return nil
}

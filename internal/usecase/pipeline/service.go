package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/email"
	"github.com/johnquangdev/meeting-summarizer/pkg/jobcontext"
)

// AudioStore is the slice of object storage the pipeline needs
type AudioStore interface {
	SaveAudio(ctx context.Context, meetingID int64, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// Transcriber is the opaque speech-to-text capability
type Transcriber interface {
	Transcribe(ctx context.Context, audioURL string) (*ai.TranscribeResponse, error)
}

// Summarizer is the opaque summarization capability
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (*ai.SummaryResult, error)
}

// Emailer sends the followup notification
type Emailer interface {
	SendFollowup(ctx context.Context, recipients []string, data email.FollowupData) error
}

// Service executes the pipeline stages delivered by the task queue.
// Delivery is at-least-once, so every handler re-claims its stage from
// the meeting's persisted status and writes its artifact by overwrite:
// a redelivered task either finds the work already done and acks, or
// safely redoes it.
type Service struct {
	meetings     repositories.MeetingRepository
	transcripts  repositories.TranscriptRepository
	summaries    repositories.SummaryRepository
	participants repositories.ParticipantRepository

	resolver   *lifecycle.Resolver
	dispatcher *lifecycle.Dispatcher
	provider   lifecycle.ProviderAPI
	store      AudioStore

	transcriber Transcriber
	summarizer  Summarizer
	emailer     Emailer

	logger *zap.Logger
}

// NewService wires the pipeline stage handlers
func NewService(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	summaries repositories.SummaryRepository,
	participants repositories.ParticipantRepository,
	resolver *lifecycle.Resolver,
	dispatcher *lifecycle.Dispatcher,
	provider lifecycle.ProviderAPI,
	store AudioStore,
	transcriber Transcriber,
	summarizer Summarizer,
	emailer Emailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:     meetings,
		transcripts:  transcripts,
		summaries:    summaries,
		participants: participants,
		resolver:     resolver,
		dispatcher:   dispatcher,
		provider:     provider,
		store:        store,
		transcriber:  transcriber,
		summarizer:   summarizer,
		emailer:      emailer,
		logger:       logger,
	}
}

// HandleTask routes one queue delivery to its stage handler. A returned
// error requests redelivery; nil acks the task, including the cases
// where the work turned out to be already done or permanently failed.
func (s *Service) HandleTask(ctx context.Context, task repositories.TaskRequest) error {
	switch task.Name {
	case repositories.TaskTranscribe:
		return s.transcribe(ctx, task.MeetingID)
	case repositories.TaskSummarize:
		return s.summarize(ctx, task.MeetingID)
	case repositories.TaskSendFollowup:
		return s.sendFollowup(ctx, task.MeetingID)
	default:
		s.logger.Warn("unknown task dropped", zap.String("task", task.Name))
		return nil
	}
}

// claimStage puts the meeting into the wanted in-flight stage. True
// when this delivery owns the stage: either the meeting already sits in
// it (redelivery) or the claim from the preceding status succeeds.
func (s *Service) claimStage(meeting *entities.Meeting, from, inFlight entities.MeetingStatus) (bool, error) {
	if meeting.Status == inFlight {
		return true, nil
	}
	if meeting.Status != from {
		return false, nil
	}
	return s.meetings.AdvanceStatus(meeting.ID, []entities.MeetingStatus{from}, inFlight)
}

func (s *Service) transcribe(ctx context.Context, meetingID int64) error {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		// Deleted mid-pipeline; the task's result has no owner
		s.logger.Info("transcribe task for deleted meeting dropped", zap.Int64("meeting_id", meetingID))
		return nil
	}

	owned, err := s.claimStage(meeting, entities.MeetingStatusRecordingCompleted, entities.MeetingStatusTranscribing)
	if err != nil {
		return err
	}
	if !owned {
		s.logger.Info("transcription already handled",
			zap.Int64("meeting_id", meetingID),
			zap.String("status", string(meeting.Status)))
		return nil
	}

	audioURL, err := s.materializeAudio(ctx, meeting)
	if err != nil {
		return s.failStage(meetingID, entities.MeetingStatusTranscriptionFailed, err)
	}

	var result *ai.TranscribeResponse
	operation := func() error {
		var tErr error
		result, tErr = s.transcriber.Transcribe(ctx, audioURL)
		return tErr
	}
	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(backoff.NewExponentialBackOff(), ctx), 2)); err != nil {
		return s.failStage(meetingID, entities.MeetingStatusTranscriptionFailed, err)
	}

	segments, err := json.Marshal(result.Segments)
	if err != nil {
		segments = []byte("[]")
	}
	transcript := &entities.Transcript{
		MeetingID: meetingID,
		Text:      result.Text,
		Language:  result.Language,
		Segments:  datatypes.JSON(segments),
	}
	if err := s.transcripts.Save(transcript); err != nil {
		return err
	}

	if _, err := s.meetings.AdvanceStatus(meetingID,
		[]entities.MeetingStatus{entities.MeetingStatusTranscribing},
		entities.MeetingStatusTranscribed); err != nil {
		return err
	}

	s.logger.Info("📝 Transcript saved",
		zap.Int64("meeting_id", meetingID),
		zap.Int("chars", len(result.Text)))

	// Chain the next stage: claim, then dispatch
	claimed, err := s.meetings.AdvanceStatus(meetingID,
		[]entities.MeetingStatus{entities.MeetingStatusTranscribed},
		entities.MeetingStatusSummarizing)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}
	if _, err := s.dispatcher.Dispatch(ctx, meetingID, entities.MeetingStatusSummarizing); err != nil {
		return s.failStage(meetingID, entities.MeetingStatusSummarizationFailed, err)
	}
	return nil
}

// materializeAudio produces a URL whisper can read. A stored object is
// authoritative; otherwise the location is resolved fresh (stored URLs
// may be expired pre-signed links), downloaded and kept in the store so
// retries never depend on the provider again.
func (s *Service) materializeAudio(ctx context.Context, meeting *entities.Meeting) (string, error) {
	if meeting.AudioFilePath != nil && *meeting.AudioFilePath != "" {
		return s.store.PresignedURL(ctx, *meeting.AudioFilePath, time.Hour)
	}

	url, err := s.resolver.ResolveForMeeting(ctx, meeting)
	if err != nil {
		return "", fmt.Errorf("audio location: %w", err)
	}

	body, contentType, err := s.provider.DownloadAudio(ctx, url)
	if err != nil {
		return "", fmt.Errorf("audio download: %w", err)
	}
	defer body.Close()

	objectKey, err := s.store.SaveAudio(ctx, meeting.ID, body, -1, contentType)
	if err != nil {
		return "", fmt.Errorf("audio store: %w", err)
	}
	if err := s.meetings.SetAudioLocation(meeting.ID, "", objectKey); err != nil {
		return "", err
	}

	s.logger.Info("🎧 Audio stored",
		zap.Int64("meeting_id", meeting.ID),
		zap.String("object_key", objectKey))
	return s.store.PresignedURL(ctx, objectKey, time.Hour)
}

func (s *Service) summarize(ctx context.Context, meetingID int64) error {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		s.logger.Info("summarize task for deleted meeting dropped", zap.Int64("meeting_id", meetingID))
		return nil
	}

	owned, err := s.claimStage(meeting, entities.MeetingStatusTranscribed, entities.MeetingStatusSummarizing)
	if err != nil {
		return err
	}
	if !owned {
		s.logger.Info("summarization already handled",
			zap.Int64("meeting_id", meetingID),
			zap.String("status", string(meeting.Status)))
		return nil
	}

	transcript, err := s.transcripts.GetByMeetingID(meetingID)
	if err != nil {
		return err
	}
	if transcript == nil || transcript.Text == "" {
		return s.failStage(meetingID, entities.MeetingStatusSummarizationFailed,
			errors.New("no transcript to summarize"))
	}

	var result *ai.SummaryResult
	operation := func() error {
		var sErr error
		result, sErr = s.summarizer.Summarize(ctx, transcript.Text)
		return sErr
	}
	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(backoff.NewExponentialBackOff(), ctx), 2)); err != nil {
		return s.failStage(meetingID, entities.MeetingStatusSummarizationFailed, err)
	}

	actionItems, _ := json.Marshal(result.ActionItems)
	decisions, _ := json.Marshal(result.Decisions)
	summary := &entities.Summary{
		MeetingID:   meetingID,
		Text:        result.Summary,
		ActionItems: datatypes.JSON(actionItems),
		Decisions:   datatypes.JSON(decisions),
	}
	if err := s.summaries.Save(summary); err != nil {
		return err
	}

	if _, err := s.meetings.AdvanceStatus(meetingID,
		[]entities.MeetingStatus{entities.MeetingStatusSummarizing},
		entities.MeetingStatusCompleted); err != nil {
		return err
	}

	s.logger.Info("✅ Meeting completed", zap.Int64("meeting_id", meetingID))
	return nil
}

func (s *Service) sendFollowup(ctx context.Context, meetingID int64) error {
	meeting, err := s.meetings.GetByID(meetingID)
	if err != nil {
		return err
	}
	if meeting == nil {
		s.logger.Info("followup task for deleted meeting dropped", zap.Int64("meeting_id", meetingID))
		return nil
	}

	summary, err := s.summaries.GetByMeetingID(meetingID)
	if err != nil {
		return err
	}
	if summary == nil || summary.Text == "" {
		// Dispatch is guarded on a live summary; losing it afterwards
		// is permanent for this task
		s.logger.Warn("followup dropped, summary gone", zap.Int64("meeting_id", meetingID))
		return nil
	}

	participants, err := s.participants.ListByMeetingID(meetingID)
	if err != nil {
		return err
	}
	recipients := make([]string, 0, len(participants))
	for _, p := range participants {
		if p.Email != "" {
			recipients = append(recipients, p.Email)
		}
	}
	if len(recipients) == 0 {
		s.logger.Warn("followup dropped, no recipients", zap.Int64("meeting_id", meetingID))
		return nil
	}

	data := email.FollowupData{
		MeetingTitle: meeting.Title,
		Summary:      summary.Text,
		ActionItems:  decodeStrings(summary.ActionItems),
		Decisions:    decodeStrings(summary.Decisions),
	}
	if err := s.emailer.SendFollowup(ctx, recipients, data); err != nil {
		if jobcontext.IsRetryableError(err) {
			return err
		}
		s.logger.Error("followup email failed permanently",
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
		return nil
	}

	s.logger.Info("📧 Followup sent",
		zap.Int64("meeting_id", meetingID),
		zap.Int("recipients", len(recipients)))
	return nil
}

// failStage routes a stage error: retryable errors go back to the queue
// for redelivery, the rest park the meeting in the stage's failure
// state until an external retry.
func (s *Service) failStage(meetingID int64, status entities.MeetingStatus, cause error) error {
	if jobcontext.IsRetryableError(cause) {
		return cause
	}
	s.logger.Error("stage failed",
		zap.Int64("meeting_id", meetingID),
		zap.String("failure_status", string(status)),
		zap.Error(cause))
	if _, err := s.meetings.MarkFailed(meetingID, status, cause.Error()); err != nil {
		return err
	}
	return nil
}

func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

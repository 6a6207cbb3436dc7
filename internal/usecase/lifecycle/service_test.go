package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
)

// fakeMeetingRepo is an in-memory MeetingRepository with the same guarded
// update semantics as the real one
type fakeMeetingRepo struct {
	mu       sync.Mutex
	nextID   int64
	meetings map[int64]*entities.Meeting
}

func newFakeMeetingRepo() *fakeMeetingRepo {
	return &fakeMeetingRepo{meetings: make(map[int64]*entities.Meeting)}
}

func (r *fakeMeetingRepo) Create(meeting *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	meeting.ID = r.nextID
	stored := *meeting
	r.meetings[meeting.ID] = &stored
	return nil
}

func (r *fakeMeetingRepo) seed(meeting *entities.Meeting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if meeting.ID > r.nextID {
		r.nextID = meeting.ID
	}
	stored := *meeting
	r.meetings[meeting.ID] = &stored
}

func (r *fakeMeetingRepo) GetByID(id int64) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return nil, nil
	}
	copied := *meeting
	return &copied, nil
}

func (r *fakeMeetingRepo) GetByExternalMeetingID(externalID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meetings {
		if m.ExternalMeetingID != nil && *m.ExternalMeetingID == externalID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) GetByProviderBotID(botID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meetings {
		if m.ProviderBotID != nil && *m.ProviderBotID == botID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) GetByProviderRecordingID(recordingID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.meetings {
		if m.ProviderRecordingID != nil && *m.ProviderRecordingID == recordingID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeMeetingRepo) List(limit, offset int) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.meetings {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeMeetingRepo) Delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meetings, id)
	return nil
}

func (r *fakeMeetingRepo) AdvanceStatus(id int64, from []entities.MeetingStatus, to entities.MeetingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return false, nil
	}
	for _, source := range from {
		if meeting.Status == source {
			meeting.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMeetingRepo) MarkFailed(id int64, status entities.MeetingStatus, reason string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok || meeting.Status == entities.MeetingStatusCompleted {
		return false, nil
	}
	meeting.Status = status
	meeting.LastError = &reason
	return true, nil
}

func (r *fakeMeetingRepo) SetAudioLocation(id int64, url, filePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return nil
	}
	if filePath != "" {
		meeting.AudioFilePath = &filePath
		meeting.AudioURL = nil
		return nil
	}
	meeting.AudioURL = &url
	return nil
}

func (r *fakeMeetingRepo) SetCorrelation(id int64, botID, recordingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	meeting, ok := r.meetings[id]
	if !ok {
		return nil
	}
	if botID != "" {
		meeting.ProviderBotID = &botID
	}
	if recordingID != "" {
		meeting.ProviderRecordingID = &recordingID
	}
	return nil
}

func (r *fakeMeetingRepo) status(id int64) entities.MeetingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.meetings[id].Status
}

// fakeQueue records enqueued tasks
type fakeQueue struct {
	mu    sync.Mutex
	tasks []repositories.TaskRequest
	err   error
}

func (q *fakeQueue) Enqueue(_ context.Context, task repositories.TaskRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) named(name string) []repositories.TaskRequest {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []repositories.TaskRequest
	for _, t := range q.tasks {
		if t.Name == name {
			out = append(out, t)
		}
	}
	return out
}

type fakeTranscriptRepo struct {
	mu          sync.Mutex
	transcripts map[int64]*entities.Transcript
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{transcripts: make(map[int64]*entities.Transcript)}
}

func (r *fakeTranscriptRepo) Save(t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *t
	r.transcripts[t.MeetingID] = &stored
	return nil
}

func (r *fakeTranscriptRepo) GetByMeetingID(meetingID int64) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.transcripts[meetingID]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	summaries map[int64]*entities.Summary
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{summaries: make(map[int64]*entities.Summary)}
}

func (r *fakeSummaryRepo) Save(s *entities.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *s
	r.summaries[s.MeetingID] = &stored
	return nil
}

func (r *fakeSummaryRepo) GetByMeetingID(meetingID int64) (*entities.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.summaries[meetingID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[int64][]*entities.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int64][]*entities.Participant)}
}

func (r *fakeParticipantRepo) SaveAll(participants []*entities.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range participants {
		r.participants[p.MeetingID] = append(r.participants[p.MeetingID], p)
	}
	return nil
}

func (r *fakeParticipantRepo) ListByMeetingID(meetingID int64) ([]*entities.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participants[meetingID], nil
}

type serviceFixture struct {
	service      *Service
	meetings     *fakeMeetingRepo
	transcripts  *fakeTranscriptRepo
	summaries    *fakeSummaryRepo
	participants *fakeParticipantRepo
	queue        *fakeQueue
	provider     *fakeProvider
}

func newServiceFixture() *serviceFixture {
	meetings := newFakeMeetingRepo()
	transcripts := newFakeTranscriptRepo()
	summaries := newFakeSummaryRepo()
	participants := newFakeParticipantRepo()
	queue := &fakeQueue{}
	provider := newFakeProvider()
	logger := zap.NewNop()

	directory := NewDirectory(cache.NewMemoryStore(), meetings, provider, time.Hour, logger)
	resolver := NewResolver(provider, logger)
	dispatcher := NewDispatcher(queue, logger)

	service := NewService(
		meetings, transcripts, summaries, participants,
		NewNormalizer(), directory, resolver, dispatcher,
		provider, time.Minute, logger,
	)
	return &serviceFixture{
		service:      service,
		meetings:     meetings,
		transcripts:  transcripts,
		summaries:    summaries,
		participants: participants,
		queue:        queue,
		provider:     provider,
	}
}

func seedMeeting(f *serviceFixture, id int64, status entities.MeetingStatus, botID string) *entities.Meeting {
	meeting := entities.NewMeeting("Weekly sync", "https://zoom.us/j/123")
	meeting.ID = id
	meeting.Status = status
	if botID != "" {
		meeting.ProviderBotID = &botID
	}
	f.meetings.seed(meeting)
	return meeting
}

func TestHandleWebhook_RecordingCompletedDispatchesTranscription(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusPending, "b1")

	body := []byte(`{
		"id": "b1",
		"status": "done",
		"recordings": [
			{"id": "r1", "media_shortcuts": {"audio_mixed": {"data": {"download_url": "https://x/y"}}}}
		]
	}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)

	meeting, err := f.meetings.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribing, meeting.Status)
	require.NotNil(t, meeting.AudioURL)
	assert.Equal(t, "https://x/y", *meeting.AudioURL)
	require.NotNil(t, meeting.ProviderRecordingID)
	assert.Equal(t, "r1", *meeting.ProviderRecordingID)

	tasks := f.queue.named(repositories.TaskTranscribe)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(42), tasks[0].MeetingID)
}

func TestHandleWebhook_ExactDuplicateSuppressed(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	body := []byte(`{"id": "b1", "status": "done", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)

	result, err = f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)

	assert.Len(t, f.queue.named(repositories.TaskTranscribe), 1)
}

func TestHandleWebhook_RetransmittedCompletionAbsorbedByClaim(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	// Different bodies, same meaning: the dedupe cache misses but the
	// transcribing claim only lets the first one dispatch
	first := []byte(`{"id": "b1", "status": "done", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)
	second := []byte(`{"id": "b1", "status": "call_ended", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)

	_, err := f.service.HandleWebhook(context.Background(), first)
	require.NoError(t, err)
	result, err := f.service.HandleWebhook(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)

	assert.Len(t, f.queue.named(repositories.TaskTranscribe), 1)
	assert.Equal(t, entities.MeetingStatusTranscribing, f.meetings.status(42))
}

func TestHandleWebhook_ConcurrentRetransmitsSingleDispatch(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	// Distinct bodies defeat the digest cache; the transcribing claim is
	// the only gate left and exactly one delivery may win it
	const deliveries = 8
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(seq int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"id": "b1", "status": "done", "seq": %d, "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`, seq)
			_, err := f.service.HandleWebhook(context.Background(), []byte(body))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, f.queue.named(repositories.TaskTranscribe), 1)
	assert.Equal(t, entities.MeetingStatusTranscribing, f.meetings.status(42))
}

func TestHandleWebhook_EndedStreamContinuesPipeline(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusStreamingEnded, "b1")

	body := []byte(`{"id": "b1", "status": "done", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusTranscribing, f.meetings.status(42))

	tasks := f.queue.named(repositories.TaskTranscribe)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(42), tasks[0].MeetingID)
}

func TestHandleWebhook_ProviderExhaustionAdvancesWithoutAudio(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")
	f.provider.getBotErr = errors.New("status 502 from every region")

	// No candidates in the body, every resolution region failing
	body := []byte(`{"id": "b1", "status": "done"}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusRecordingCompleted, f.meetings.status(42))
	assert.Empty(t, f.queue.tasks)
}

func TestHandleWebhook_CompletedMeetingUntouched(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusCompleted, "b1")

	body := []byte(`{"id": "b1", "status": "done", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusCompleted, f.meetings.status(42))
	assert.Empty(t, f.queue.tasks)
}

func TestHandleWebhook_UnknownBotIgnored(t *testing.T) {
	f := newServiceFixture()

	body := []byte(`{"id": "nobody-knows-me", "status": "done"}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)
	assert.Empty(t, f.queue.tasks)
}

func TestHandleWebhook_UnknownExternalIDIsNotFound(t *testing.T) {
	f := newServiceFixture()

	body := []byte(`{
		"event": "recording.completed",
		"payload": {"object": {"id": 999, "recording_files": []}}
	}`)

	_, err := f.service.HandleWebhook(context.Background(), body)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}

func TestHandleWebhook_BotStartedAdvances(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusPending, "b1")

	body := []byte(`{"event": "bot.in_call_recording", "data": {"bot": {"id": "b1"}}}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusRecording, f.meetings.status(42))
}

func TestHandleWebhook_LateBotStartedAbsorbed(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusTranscribing, "b1")

	body := []byte(`{"event": "bot.in_call_recording", "data": {"bot": {"id": "b1"}}}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusTranscribing, f.meetings.status(42))
}

func TestHandleWebhook_BotFailed(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	body := []byte(`{
		"event": "bot.fatal",
		"data": {"bot": {"id": "b1"}, "data": {"code": "kicked_from_call"}}
	}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)

	meeting, _ := f.meetings.GetByID(42)
	assert.Equal(t, entities.MeetingStatusBotFailed, meeting.Status)
	require.NotNil(t, meeting.LastError)
	assert.Equal(t, "kicked_from_call", *meeting.LastError)
}

func TestHandleWebhook_CompletionWithoutAudioBlocks(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	// No candidates in the body and the provider knows nothing
	body := []byte(`{"id": "b1", "status": "done"}`)

	result, err := f.service.HandleWebhook(context.Background(), body)
	require.NoError(t, err)
	assert.Equal(t, ResultAccepted, result)
	assert.Equal(t, entities.MeetingStatusRecordingCompleted, f.meetings.status(42))
	assert.Empty(t, f.queue.tasks)
}

func TestHandleWebhook_EnqueueFailureMarksStage(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")
	f.queue.err = errors.New("broker down")

	body := []byte(`{"id": "b1", "status": "done", "recordings": [{"id": "r1", "download_url": "https://x/a.mp3"}]}`)

	_, err := f.service.HandleWebhook(context.Background(), body)
	require.Error(t, err)
	assert.Equal(t, entities.MeetingStatusTranscriptionFailed, f.meetings.status(42))
}

func TestCreateMeeting(t *testing.T) {
	f := newServiceFixture()

	meeting, err := f.service.CreateMeeting(context.Background(), "Planning", "https://meet.example/abc", "Notetaker",
		[]*entities.Participant{{Name: "An", Email: "an@example.com"}})
	require.NoError(t, err)
	require.NotNil(t, meeting.ProviderBotID)
	assert.Len(t, f.provider.startedBots, 1)

	stored, _ := f.meetings.GetByID(meeting.ID)
	assert.Equal(t, entities.MeetingStatusPending, stored.Status)
	require.NotNil(t, stored.ProviderBotID)
	assert.Equal(t, *meeting.ProviderBotID, *stored.ProviderBotID)

	saved, _ := f.participants.ListByMeetingID(meeting.ID)
	require.Len(t, saved, 1)
	assert.Equal(t, "an@example.com", saved[0].Email)
}

func TestCreateMeeting_BotStartFailure(t *testing.T) {
	f := newServiceFixture()
	f.provider.startBotErr = errors.New("provider rejected")

	_, err := f.service.CreateMeeting(context.Background(), "Planning", "https://meet.example/abc", "", nil)
	require.Error(t, err)

	meetings, _ := f.meetings.List(10, 0)
	require.Len(t, meetings, 1)
	assert.Equal(t, entities.MeetingStatusBotFailed, meetings[0].Status)
}

func TestRetryStage(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusTranscriptionFailed, "b1")

	target, err := f.service.RetryStage(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribing, target)
	assert.Equal(t, entities.MeetingStatusTranscribing, f.meetings.status(42))
	assert.Len(t, f.queue.named(repositories.TaskTranscribe), 1)
}

func TestRetryStage_NotRetryable(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusRecording, "b1")

	_, err := f.service.RetryStage(context.Background(), 42)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_INVALID_STATE, appErr.Code)
	assert.Empty(t, f.queue.tasks)
}

func TestTriggerFollowup_Preconditions(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusCompleted, "b1")

	// No summary yet
	err := f.service.TriggerFollowup(context.Background(), 42)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_PRECONDITION_FAILED, appErr.Code)

	// Summary but no participants
	require.NoError(t, f.summaries.Save(&entities.Summary{MeetingID: 42, Text: "Decisions were made."}))
	err = f.service.TriggerFollowup(context.Background(), 42)
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_PRECONDITION_FAILED, appErr.Code)

	// Both present
	require.NoError(t, f.participants.SaveAll([]*entities.Participant{{MeetingID: 42, Email: "an@example.com"}}))
	require.NoError(t, f.service.TriggerFollowup(context.Background(), 42))
	assert.Len(t, f.queue.named(repositories.TaskSendFollowup), 1)
}

func TestStreamingLifecycle(t *testing.T) {
	f := newServiceFixture()

	meeting, err := f.service.StartStreaming(context.Background(), "Live session", "https://meet.example/live", "", nil)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusStreaming, meeting.Status)
	assert.Equal(t, entities.MeetingStatusStreaming, f.meetings.status(meeting.ID))

	require.NoError(t, f.service.StopStreaming(context.Background(), meeting.ID))
	assert.Equal(t, entities.MeetingStatusStreamingEnded, f.meetings.status(meeting.ID))
	assert.Len(t, f.provider.stoppedBots, 1)

	// Stopping twice is an invalid-state error
	err = f.service.StopStreaming(context.Background(), meeting.ID)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_INVALID_STATE, appErr.Code)
}

func TestGetStatus(t *testing.T) {
	f := newServiceFixture()
	meeting := seedMeeting(f, 42, entities.MeetingStatusTranscribed, "b1")
	audioURL := "https://x/a.mp3"
	meeting.AudioURL = &audioURL
	f.meetings.seed(meeting)
	require.NoError(t, f.transcripts.Save(&entities.Transcript{MeetingID: 42, Text: "hello world"}))

	info, err := f.service.GetStatus(42)
	require.NoError(t, err)
	assert.Equal(t, entities.MeetingStatusTranscribed, info.Status)
	assert.True(t, info.HasAudio)
	assert.True(t, info.HasTranscript)
	assert.False(t, info.HasSummary)
}

func TestDeleteMeeting(t *testing.T) {
	f := newServiceFixture()
	seedMeeting(f, 42, entities.MeetingStatusCompleted, "b1")

	require.NoError(t, f.service.DeleteMeeting(context.Background(), 42))
	meeting, err := f.meetings.GetByID(42)
	require.NoError(t, err)
	assert.Nil(t, meeting)

	err = f.service.DeleteMeeting(context.Background(), 42)
	require.Error(t, err)
	var appErr apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorCode_MEETING_NOT_FOUND, appErr.Code)
}

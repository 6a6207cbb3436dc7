package lifecycle

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/recall"
)

const botKeyPrefix = "recall:bot:"

// Directory maps provider bot ids to internal meeting ids. The cache is
// strictly best-effort: every cache failure is logged and resolution
// falls through to the database and then the provider, which is the
// source of truth. Entries expire after the retention window; provider
// data outlives them.
type Directory struct {
	store     cache.Store
	meetings  repositories.MeetingRepository
	provider  ProviderAPI
	retention time.Duration
	logger    *zap.Logger
}

// NewDirectory creates a bot-meeting directory
func NewDirectory(store cache.Store, meetings repositories.MeetingRepository, provider ProviderAPI, retention time.Duration, logger *zap.Logger) *Directory {
	return &Directory{
		store:     store,
		meetings:  meetings,
		provider:  provider,
		retention: retention,
		logger:    logger,
	}
}

// Put records a bot→meeting mapping at bot-start time, before any
// webhook for the bot can arrive. Never fatal.
func (d *Directory) Put(ctx context.Context, botID string, meetingID int64) {
	if botID == "" {
		return
	}
	if err := d.store.Set(ctx, botKeyPrefix+botID, strconv.FormatInt(meetingID, 10), d.retention); err != nil {
		d.logger.Warn("directory cache write failed",
			zap.String("bot_id", botID),
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
	}
}

// Resolve finds the meeting a bot belongs to. Order: cache, own
// database row, provider lookup by bot id. Returns found=false when the
// bot is unknown everywhere; callers answer such events as ignored.
func (d *Directory) Resolve(ctx context.Context, botID string) (int64, bool, error) {
	if botID == "" {
		return 0, false, nil
	}

	if value, ok, err := d.store.Get(ctx, botKeyPrefix+botID); err != nil {
		d.logger.Warn("directory cache read failed", zap.String("bot_id", botID), zap.Error(err))
	} else if ok {
		if meetingID, parseErr := strconv.ParseInt(value, 10, 64); parseErr == nil {
			return meetingID, true, nil
		}
	}

	meeting, err := d.meetings.GetByProviderBotID(botID)
	if err != nil {
		return 0, false, err
	}
	if meeting != nil {
		d.Put(ctx, botID, meeting.ID)
		return meeting.ID, true, nil
	}

	bot, err := d.provider.GetBot(ctx, botID)
	if err != nil {
		if errors.Is(err, recall.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	correlationID := bot.MeetingCorrelationID()
	if correlationID == "" {
		return 0, false, nil
	}
	meeting, err = d.meetings.GetByExternalMeetingID(correlationID)
	if err != nil {
		return 0, false, err
	}
	if meeting == nil {
		return 0, false, nil
	}

	// Learned mapping: remember it for the next delivery
	d.Put(ctx, botID, meeting.ID)
	if err := d.meetings.SetCorrelation(meeting.ID, botID, ""); err != nil {
		d.logger.Warn("failed to persist bot correlation", zap.Int64("meeting_id", meeting.ID), zap.Error(err))
	}
	return meeting.ID, true, nil
}

// Forget drops a cached mapping, used when a meeting is deleted
func (d *Directory) Forget(ctx context.Context, botID string) {
	if botID == "" {
		return
	}
	if err := d.store.Delete(ctx, botKeyPrefix+botID); err != nil {
		d.logger.Warn("directory cache delete failed", zap.String("bot_id", botID), zap.Error(err))
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/lifecycle"
)

// Streaming handles the streaming-bot variant of the meetings API
type Streaming struct {
	service *lifecycle.Service
	logger  *zap.Logger
}

// NewStreaming creates a streaming handler
func NewStreaming(service *lifecycle.Service, logger *zap.Logger) *Streaming {
	return &Streaming{service: service, logger: logger}
}

// StartBot handles POST /v1/streaming/bot/start
func (h *Streaming) StartBot(c echo.Context) error {
	var req meeting.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidArgument(err.Error()))
	}

	participants := make([]*entities.Participant, 0, len(req.Participants))
	for _, p := range req.Participants {
		participants = append(participants, &entities.Participant{Name: p.Name, Email: p.Email})
	}

	created, err := h.service.StartStreaming(c.Request().Context(), req.Title, req.MeetingURL, req.BotName, participants)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.JSON(http.StatusCreated, success{
		Code:    0,
		Message: "success",
		Data:    meeting.FromEntity(created),
	})
}

// StopBot handles POST /v1/streaming/bot/stop/:id
func (h *Streaming) StopBot(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.StopStreaming(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "stopped"})
}

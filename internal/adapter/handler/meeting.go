package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/lifecycle"
)

// Meeting handles the meetings API
type Meeting struct {
	service *lifecycle.Service
	logger  *zap.Logger
}

// NewMeeting creates a meeting handler
func NewMeeting(service *lifecycle.Service, logger *zap.Logger) *Meeting {
	return &Meeting{service: service, logger: logger}
}

func meetingID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrInvalidArgument("invalid meeting id")
	}
	return id, nil
}

// Create handles POST /v1/meetings: create the record and join a bot
func (h *Meeting) Create(c echo.Context) error {
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

	created, err := h.service.CreateMeeting(c.Request().Context(), req.Title, req.MeetingURL, req.BotName, participants)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.JSON(http.StatusCreated, success{
		Code:    0,
		Message: "success",
		Data:    meeting.FromEntity(created),
	})
}

// List handles GET /v1/meetings
func (h *Meeting) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	meetings, err := h.service.ListMeetings(limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting.FromEntities(meetings))
}

// Get handles GET /v1/meetings/:id
func (h *Meeting) Get(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.service.GetMeeting(id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting.FromEntity(m))
}

// Delete handles DELETE /v1/meetings/:id
func (h *Meeting) Delete(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.DeleteMeeting(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]int64{"deleted": id})
}

// Status handles GET /v1/meetings/:id/status
func (h *Meeting) Status(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	info, err := h.service.GetStatus(id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, info)
}

// Retry handles POST /v1/meetings/:id/retry: re-enter a failed stage
func (h *Meeting) Retry(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	status, err := h.service.RetryStage(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, meeting.RetryResponse{MeetingID: id, Status: status})
}

// SendFollowup handles POST /v1/meetings/:id/send-followup
func (h *Meeting) SendFollowup(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.service.TriggerFollowup(c.Request().Context(), id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"status": "dispatched"})
}

package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/meeting-summarizer/errors"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/lifecycle"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Webhook handles inbound provider lifecycle events
type Webhook struct {
	service *lifecycle.Service
	zoomCfg *config.ZoomConfig
	logger  *zap.Logger
}

// NewWebhook creates a webhook handler
func NewWebhook(service *lifecycle.Service, zoomCfg *config.ZoomConfig, logger *zap.Logger) *Webhook {
	return &Webhook{service: service, zoomCfg: zoomCfg, logger: logger}
}

// Recall handles POST /v1/webhooks/recall. Always answers
// {status: accepted|ignored} except for malformed payloads (400) and
// events naming a meeting we do not have (404).
func (h *Webhook) Recall(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	result, err := h.service.HandleWebhook(c.Request().Context(), body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.JSON(http.StatusOK, meeting.WebhookResponse{Status: string(result)})
}

// zoomValidation is Zoom's endpoint validation challenge
type zoomValidation struct {
	Event   string `json:"event"`
	Payload struct {
		PlainToken string `json:"plainToken"`
	} `json:"payload"`
}

// Zoom handles POST /v1/webhooks/zoom: signature verification, the
// endpoint validation challenge, then normal lifecycle handling
func (h *Webhook) Zoom(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return HandleError(h.logger, c, apperrors.ErrInvalidPayload())
	}

	if !h.zoomCfg.SkipSignatureVerification {
		signature := c.Request().Header.Get("x-zm-signature")
		timestamp := c.Request().Header.Get("x-zm-request-timestamp")
		if !ai.VerifyZoomSignature(h.zoomCfg.WebhookSecretToken, body, timestamp, signature) {
			return HandleError(h.logger, c, apperrors.ErrInvalidSignature())
		}
	}

	var validation zoomValidation
	if err := json.Unmarshal(body, &validation); err == nil && validation.Event == "endpoint.url_validation" {
		return h.answerZoomValidation(c, validation.Payload.PlainToken)
	}

	result, err := h.service.HandleWebhook(c.Request().Context(), body)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return c.JSON(http.StatusOK, meeting.WebhookResponse{Status: string(result)})
}

// answerZoomValidation echoes the plain token with its HMAC, as Zoom's
// endpoint validation handshake requires
func (h *Webhook) answerZoomValidation(c echo.Context, plainToken string) error {
	mac := hmac.New(sha256.New, []byte(h.zoomCfg.WebhookSecretToken))
	mac.Write([]byte(plainToken))
	return c.JSON(http.StatusOK, map[string]string{
		"plainToken":     plainToken,
		"encryptedToken": hex.EncodeToString(mac.Sum(nil)),
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	webhookHandler   *Webhook
	meetingHandler   *Meeting
	streamingHandler *Streaming
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, webhookHandler *Webhook, meetingHandler *Meeting, streamingHandler *Streaming) *Router {
	return &Router{
		cfg:              cfg,
		webhookHandler:   webhookHandler,
		meetingHandler:   meetingHandler,
		streamingHandler: streamingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupWebhookRoutes(v1)
	rt.setupMeetingRoutes(v1)
	rt.setupStreamingRoutes(v1)
}

// setupWebhookRoutes configures inbound provider webhooks
func (rt *Router) setupWebhookRoutes(g *echo.Group) {
	webhookGroup := g.Group("/webhooks")
	webhookGroup.POST("/recall", rt.webhookHandler.Recall)
	webhookGroup.POST("/zoom", rt.webhookHandler.Zoom)
}

// setupMeetingRoutes configures meeting management routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")
	meetingGroup.POST("", rt.meetingHandler.Create)
	meetingGroup.GET("", rt.meetingHandler.List)
	meetingGroup.GET("/:id", rt.meetingHandler.Get)
	meetingGroup.DELETE("/:id", rt.meetingHandler.Delete)
	meetingGroup.GET("/:id/status", rt.meetingHandler.Status)
	meetingGroup.POST("/:id/retry", rt.meetingHandler.Retry)
	meetingGroup.POST("/:id/send-followup", rt.meetingHandler.SendFollowup)
}

// setupStreamingRoutes configures the streaming bot routes
func (rt *Router) setupStreamingRoutes(g *echo.Group) {
	streamingGroup := g.Group("/streaming")
	streamingGroup.POST("/bot/start", rt.streamingHandler.StartBot)
	streamingGroup.POST("/bot/stop/:id", rt.streamingHandler.StopBot)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}

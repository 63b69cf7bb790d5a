// Package status serves a read-only HTTP view of the bot: liveness, tracked
// polls, the recent poll event journal and a live event stream.
package status

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sgdc3/reactord/internal/events"
	"github.com/sgdc3/reactord/internal/middleware"
	"github.com/sgdc3/reactord/internal/polls"
	"github.com/sgdc3/reactord/internal/realtime"
	"github.com/sgdc3/reactord/pkg/response"
)

// EventSource lists recent poll events, newest first.
type EventSource interface {
	Recent(ctx context.Context, limit int) ([]events.Event, error)
}

// Handler handles status endpoints.
type Handler struct {
	registry *polls.Registry
	journal  EventSource
	stream   *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates a status handler. journal may be nil when no journal is configured.
func NewHandler(registry *polls.Registry, journal EventSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{registry: registry, journal: journal, logger: logger}
}

// SetStream enables GET /events/stream, fed by hub.
func (h *Handler) SetStream(hub *realtime.Hub) {
	h.stream = hub
}

// NewRouter builds the gin engine with every status route. allowedOrigins is
// passed to middleware.CORS.
func NewRouter(h *Handler, allowedOrigins string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", h.Health)
	router.GET("/polls", h.ListPolls)
	router.GET("/polls/:id", h.GetPoll)
	router.GET("/events", h.RecentEvents)
	router.GET("/events/stream", h.StreamEvents(middleware.AllowsOrigin(allowedOrigins)))
	return router
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}

// ListPolls handles GET /polls.
func (h *Handler) ListPolls(c *gin.Context) {
	ids := h.registry.IDs()
	response.OK(c, gin.H{"count": len(ids), "ids": ids})
}

// GetPoll handles GET /polls/:id.
func (h *Handler) GetPoll(c *gin.Context) {
	id := c.Param("id")
	response.OK(c, gin.H{"id": id, "tracked": h.registry.Contains(id)})
}

// RecentEvents handles GET /events?limit=N.
func (h *Handler) RecentEvents(c *gin.Context) {
	if h.journal == nil {
		response.ServiceUnavailable(c, "event journal not configured")
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}
	list, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list poll events", zap.Error(err))
		response.Internal(c, "failed to list events")
		return
	}
	if list == nil {
		list = []events.Event{}
	}
	response.OK(c, list)
}

// StreamEvents handles GET /events/stream?guild_id=ID as a websocket.
func (h *Handler) StreamEvents(allowOrigin func(origin string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.stream == nil {
			response.ServiceUnavailable(c, "event stream not configured")
			return
		}
		realtime.ServeWs(h.stream, allowOrigin, h.logger)(c)
	}
}

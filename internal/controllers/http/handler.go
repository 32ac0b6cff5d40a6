package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"go.uber.org/zap"

	"github.com/ri4re/linebot/internal/domain"
	"github.com/ri4re/linebot/internal/repository"
	"github.com/ri4re/linebot/internal/services"
)

type EventDispatcher interface {
	Dispatch(ctx context.Context, events []domain.InboundEvent) []services.EventResult
}

var _ EventDispatcher = (*services.Dispatcher)(nil)

type Handler struct {
	dispatcher EventDispatcher
	journal    repository.JournalRepository
	logger     *zap.Logger
}

// NewHandler builds the HTTP surface. journal may be nil, which disables /commands.
func NewHandler(d EventDispatcher, journal repository.JournalRepository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{dispatcher: d, journal: journal, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/webhook", h.Webhook)
	r.GET("/healthz", h.Health)
	r.GET("/commands", h.RecentCommands)
}

// Webhook processes one delivery batch. The batch runs on a context detached from the
// request so a dropped connection does not abort replies already in flight.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("read webhook body", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	var req webhook.CallbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("malformed webhook body", zap.Error(err))
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	results := h.dispatcher.Dispatch(ctx, toInboundEvents(req.Events))
	c.JSON(http.StatusOK, results)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) RecentCommands(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "command journal is not configured"})
		return
	}

	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("read command journal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []domain.CommandLog{}
	}
	c.JSON(http.StatusOK, CommandsResponse{Commands: entries})
}

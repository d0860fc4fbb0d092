package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"order_acknowledgement_service/internal/app"
	"order_acknowledgement_service/internal/domain/history"
	"order_acknowledgement_service/internal/domain/schedule"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 200
)

// Handler exposes the REST surface: recent history, schedule configuration
// and the manual trigger side door.
type Handler struct {
	historyRepo  history.Repository
	scheduleRepo schedule.Repository
	acknowledger app.Acknowledger
	clock        app.Clock
	logger       *logrus.Logger
}

func NewHandler(hr history.Repository, sr schedule.Repository, ack app.Acknowledger, clock app.Clock, logger *logrus.Logger) *Handler {
	return &Handler{
		historyRepo:  hr,
		scheduleRepo: sr,
		acknowledger: ack,
		clock:        clock,
		logger:       logger,
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler, environment string) *gin.Engine {
	if environment == "production" || environment == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/orders")
	{
		api.GET("/history", h.getHistory)
		api.GET("/schedule", h.getSchedule)
		api.PUT("/schedule", h.updateSchedule)
		api.POST("/trigger", h.triggerRun)
	}
	return router
}

type historyEntryResponse struct {
	ID          string    `json:"id"`
	ExecutedAt  time.Time `json:"executedAt"`
	Succeeded   bool      `json:"succeeded"`
	Message     string    `json:"message"`
	OrderNumber string    `json:"orderNumber,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
}

type scheduleResponse struct {
	IntervalHours int       `json:"intervalHours"`
	NextExecution time.Time `json:"nextExecution"`
	Active        bool      `json:"active"`
}

type scheduleUpdateRequest struct {
	IntervalHours int  `json:"intervalHours" binding:"min=1,max=24"`
	Active        bool `json:"active"`
}

func (h *Handler) getHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.historyRepo.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorf("Failed to fetch job history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	resp := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, historyEntryResponse{
			ID:          entry.ID.String(),
			ExecutedAt:  entry.ExecutedAt,
			Succeeded:   entry.Succeeded,
			Message:     entry.Message,
			OrderNumber: entry.OrderNumber,
			Recipient:   entry.Recipient,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (h *Handler) getSchedule(c *gin.Context) {
	cfg, err := h.scheduleRepo.Read(c.Request.Context())
	if err != nil {
		h.logger.Errorf("Failed to read schedule configuration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": scheduleResponse{
		IntervalHours: cfg.IntervalHours,
		NextExecution: cfg.NextExecution,
		Active:        cfg.Active,
	}})
}

func (h *Handler) updateSchedule(c *gin.Context) {
	var req scheduleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	next := h.clock.Now().Add(time.Duration(req.IntervalHours) * time.Hour)
	if err := h.scheduleRepo.Write(c.Request.Context(), req.IntervalHours, req.Active, next); err != nil {
		h.logger.Errorf("Failed to update schedule configuration: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update schedule"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "schedule updated", "data": scheduleResponse{
		IntervalHours: req.IntervalHours,
		NextExecution: next,
		Active:        req.Active,
	}})
}

// triggerRun is the deliberate side door for on-demand processing. It is not
// gated by the schedule's active flag.
func (h *Handler) triggerRun(c *gin.Context) {
	result, err := h.acknowledger.Run(c.Request.Context())
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
			return
		}
		h.logger.Errorf("Manual acknowledgement run failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "acknowledgement run failed"})
		return
	}

	entries := make([]historyEntryResponse, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, historyEntryResponse{
			ID:          entry.ID.String(),
			ExecutedAt:  entry.ExecutedAt,
			Succeeded:   entry.Succeeded,
			Message:     entry.Message,
			OrderNumber: entry.OrderNumber,
			Recipient:   entry.Recipient,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sentCount": result.SentCount, "entries": entries})
}

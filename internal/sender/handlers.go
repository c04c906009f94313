package sender

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shannu/tdp-shell/internal/logger"
)

// Handler handles HTTP requests for push token registration and fan-out.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new sender handler.
func NewHandler(service *Service, logger *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterToken handles POST /notifications/token
// Upserts one device's FCM token for a user.
func (h *Handler) RegisterToken(c *gin.Context) {
	log := h.logger.WithContext(c.Request.Context()).WithComponent("sender-handler")

	var req RegisterTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token := strings.TrimSpace(req.FCMToken)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fcmToken is required"})
		return
	}

	if err := h.service.TokenManager().SaveToken(c.Request.Context(), req.UserID, req.DeviceID, token); err != nil {
		log.Error("failed to save token",
			slog.String("error", err.Error()),
			slog.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SendPush handles POST /notifications/send
// Fans a push notification out to all of a user's registered devices.
func (h *Handler) SendPush(c *gin.Context) {
	log := h.logger.WithContext(c.Request.Context()).WithComponent("sender-handler")

	var req SendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	notification := PushNotification{
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	}

	if err := h.service.Send(c.Request.Context(), req.UserID, notification); err != nil {
		log.Error("failed to send push",
			slog.String("error", err.Error()),
			slog.String("user_id", req.UserID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send push", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

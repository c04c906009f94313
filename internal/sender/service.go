package sender

import (
	"context"
	"fmt"
	"log/slog"

	"firebase.google.com/go/v4/messaging"
	"github.com/shannu/tdp-shell/internal/alert"
	"github.com/shannu/tdp-shell/internal/logger"
)

// Service fans push notifications out to a user's registered devices via
// Firebase Cloud Messaging.
type Service struct {
	messagingClient *messaging.Client
	tokenManager    *TokenManager
	logger          *logger.Logger
	enabled         bool

	// Kept for reproducing failed sends as curl commands.
	projectID string
	credJSON  string
}

// NewService creates a new push notification service.
func NewService(
	firebaseClient *FirebaseClient,
	logger *logger.Logger,
	enabled bool,
	projectID string,
	credJSON string,
) *Service {
	tokenManager := NewTokenManager(firebaseClient.Firestore(), logger)

	return &Service{
		messagingClient: firebaseClient.Messaging(),
		tokenManager:    tokenManager,
		logger:          logger,
		enabled:         enabled,
		projectID:       projectID,
		credJSON:        credJSON,
	}
}

// TokenManager returns the token registry backing this service.
func (s *Service) TokenManager() *TokenManager {
	return s.tokenManager
}

// SendCallNotification pushes an incoming-call event to all of the callee's
// devices. data.type is set to "call" so the shell classifies the event onto
// the calls channel.
func (s *Service) SendCallNotification(ctx context.Context, toUserID, fromUserID, callID, kind string) error {
	notification := PushNotification{
		Title: "Incoming call",
		Body:  "Tap to open",
		Data: map[string]string{
			"type":       "call",
			"scope":      "user",
			"fromUserId": fromUserID,
			"toUserId":   toUserID,
			"callId":     callID,
			"kind":       kind,
		},
	}

	return s.sendNotification(ctx, toUserID, notification)
}

// SendMessageNotification pushes a chat-message event to all of the
// recipient's devices.
func (s *Service) SendMessageNotification(ctx context.Context, toUserID, fromUserID, messageID, groupID, title, body string) error {
	data := map[string]string{
		"type":       "message",
		"fromUserId": fromUserID,
		"toUserId":   toUserID,
		"messageId":  messageID,
	}
	if groupID != "" {
		data["groupId"] = groupID
		data["scope"] = "group"
	} else {
		data["scope"] = "user"
	}

	notification := PushNotification{
		Title: title,
		Body:  body,
		Data:  data,
	}

	return s.sendNotification(ctx, toUserID, notification)
}

// Send pushes an arbitrary notification+data pair to a user's devices.
func (s *Service) Send(ctx context.Context, userID string, notification PushNotification) error {
	return s.sendNotification(ctx, userID, notification)
}

// sendNotification sends a notification to all of a user's registered devices.
func (s *Service) sendNotification(
	ctx context.Context,
	userID string,
	notification PushNotification,
) error {
	log := s.logger.WithContext(ctx).WithComponent("push-sender")

	if !s.enabled {
		log.Debug("push notifications disabled, skipping",
			slog.String("user_id", userID),
			slog.String("notification_type", notification.Data["type"]))
		return nil
	}

	tokens, err := s.tokenManager.GetUserTokens(ctx, userID)
	if err != nil {
		log.Warn("failed to retrieve push tokens",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to retrieve push tokens: %w", err)
	}

	log.Info("sending push notification",
		slog.String("user_id", userID),
		slog.String("type", notification.Data["type"]),
		slog.String("title", notification.Title),
		slog.Int("device_count", len(tokens)))

	successCount := 0
	failureCount := 0

	for _, tokenInfo := range tokens {
		result := s.sendToDevice(ctx, tokenInfo, notification)

		if result.Success {
			successCount++
			log.Debug("device send succeeded",
				slog.String("device_id", tokenInfo.DeviceID),
				slog.String("response", result.Response))
		} else {
			failureCount++
			log.Error("device send failed",
				slog.String("device_id", tokenInfo.DeviceID),
				slog.String("error", result.Error))
		}
	}

	log.Info("push notification summary",
		slog.Int("total_devices", len(tokens)),
		slog.Int("successful", successCount),
		slog.Int("failed", failureCount))

	// Return error only if all sends failed.
	if failureCount == len(tokens) {
		return fmt.Errorf("all %d notification(s) failed", failureCount)
	}

	return nil
}

// sendToDevice sends a notification to a single device.
func (s *Service) sendToDevice(
	ctx context.Context,
	tokenInfo TokenInfo,
	notification PushNotification,
) SendResult {
	log := s.logger.WithContext(ctx).WithComponent("push-sender")

	channels := alert.DefaultChannels()
	channelID := channels.Default.ID
	if notification.Data["type"] == "call" {
		channelID = channels.Calls.ID
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: channelID,
			},
		},
		Token: tokenInfo.Token,
	}

	response, err := s.messagingClient.Send(ctx, message)

	if err != nil {
		if s.credJSON != "" {
			log.Debug("failed FCM request as curl",
				slog.String("curl", GenerateDebugCurl(ctx, s.credJSON, s.projectID, message)))
		}
		return SendResult{
			Token:   tokenPrefix(tokenInfo.Token),
			Success: false,
			Error:   err.Error(),
		}
	}

	return SendResult{
		Token:    tokenPrefix(tokenInfo.Token),
		Success:  true,
		Response: response,
	}
}

// tokenPrefix truncates a token for logging.
func tokenPrefix(token string) string {
	return token[:min(10, len(token))] + "..."
}

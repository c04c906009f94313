package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/messaging"
	"golang.org/x/oauth2/google"
)

// GenerateDebugCurl creates a curl command that replicates the FCM request for
// debugging. This allows copying and running the exact request that failed.
func GenerateDebugCurl(ctx context.Context, credJSON string, projectID string, message *messaging.Message) string {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credJSON),
		"https://www.googleapis.com/auth/firebase.messaging",
	)
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to parse credentials: %v", err)
	}

	token, err := creds.TokenSource.Token()
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to get OAuth token: %v", err)
	}

	// Build FCM v1 API request payload.
	inner := map[string]interface{}{
		"token": message.Token,
		"data":  message.Data,
	}
	if message.Notification != nil {
		inner["notification"] = map[string]interface{}{
			"title": message.Notification.Title,
			"body":  message.Notification.Body,
		}
	}
	if message.Android != nil && message.Android.Notification != nil {
		inner["android"] = map[string]interface{}{
			"priority": message.Android.Priority,
			"notification": map[string]interface{}{
				"channel_id": message.Android.Notification.ChannelID,
			},
		}
	}

	payloadJSON, err := json.Marshal(map[string]interface{}{"message": inner})
	if err != nil {
		return fmt.Sprintf("# ERROR: Failed to marshal payload: %v", err)
	}

	curl := fmt.Sprintf(`curl -X POST \
  'https://fcm.googleapis.com/v1/projects/%s/messages:send' \
  -H 'Authorization: Bearer %s' \
  -H 'Content-Type: application/json' \
  -d '%s'`,
		projectID,
		token.AccessToken,
		strings.ReplaceAll(string(payloadJSON), "'", "\\'"))

	return curl
}

package sender

// PushNotification is the outbound notification payload handed to FCM.
// Data carries the nine shell payload keys; the shell's extractor reads them
// back out on the device.
type PushNotification struct {
	Title string
	Body  string
	Data  map[string]string
}

// TokenInfo represents a push notification token stored in Firestore.
type TokenInfo struct {
	Token         string `firestore:"token"`
	DeviceID      string `firestore:"deviceId"`
	LastUpdatedAt string `firestore:"lastUpdatedAt"`
}

// SendResult represents the result of sending a notification to a device.
type SendResult struct {
	Token    string
	Success  bool
	Response string
	Error    string
}

// RegisterTokenRequest is the body of POST /notifications/token.
type RegisterTokenRequest struct {
	UserID   string `json:"userId" binding:"required"`
	DeviceID string `json:"deviceId" binding:"required"`
	FCMToken string `json:"fcmToken" binding:"required"`
}

// SendPushRequest is the body of POST /notifications/send.
type SendPushRequest struct {
	UserID string            `json:"userId" binding:"required"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data"`
}

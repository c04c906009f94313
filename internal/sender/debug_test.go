package sender

import (
	"context"
	"strings"
	"testing"

	"firebase.google.com/go/v4/messaging"
)

func TestGenerateDebugCurlBadCredentials(t *testing.T) {
	message := &messaging.Message{
		Token: "tok",
		Data:  map[string]string{"type": "call"},
	}

	curl := GenerateDebugCurl(context.Background(), "not json", "proj", message)
	if !strings.HasPrefix(curl, "# ERROR:") {
		t.Errorf("expected commented error for bad credentials, got: %s", curl)
	}
}

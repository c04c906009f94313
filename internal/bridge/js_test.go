package bridge

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shannu/tdp-shell/internal/push"
	"pgregory.net/rapid"
)

func TestMarshalPayloadEscapesQuotesAndNewlines(t *testing.T) {
	payload := push.Payload{FromUserID: "user\"one\nline two"}

	raw, err := marshalPayload(payload)
	if err != nil {
		t.Fatalf("marshalPayload failed: %v", err)
	}

	var back push.Payload
	if err := json.Unmarshal([]byte(raw), &back); err != nil {
		t.Fatalf("serialized payload is not valid JSON: %v", err)
	}
	if back.FromUserID != payload.FromUserID {
		t.Errorf("round-trip FromUserID = %q, want %q", back.FromUserID, payload.FromUserID)
	}

	// The embedded value must not be able to terminate its string context.
	script := pushOpenScript(raw)
	if strings.Contains(script, "user\"one") {
		t.Error("raw quote leaked into script unescaped")
	}
}

func TestMarshalPayloadEmitsAllNineFields(t *testing.T) {
	raw, err := marshalPayload(push.Payload{})
	if err != nil {
		t.Fatalf("marshalPayload failed: %v", err)
	}
	for _, key := range []string{
		"type", "scope", "fromUserId", "toUserId", "callId",
		"kind", "groupId", "messageId", "autoAnswer",
	} {
		if !strings.Contains(raw, `"`+key+`"`) {
			t.Errorf("serialized payload missing key %q: %s", key, raw)
		}
	}
}

// TestPayloadSerializationRoundTrip verifies that any payload survives the
// serialize-embed-parse cycle unchanged, whatever its field contents.
func TestPayloadSerializationRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := push.Payload{
			Type:       rapid.String().Draw(t, "type"),
			Scope:      rapid.String().Draw(t, "scope"),
			FromUserID: rapid.String().Draw(t, "fromUserId"),
			ToUserID:   rapid.String().Draw(t, "toUserId"),
			CallID:     rapid.String().Draw(t, "callId"),
			Kind:       rapid.String().Draw(t, "kind"),
			GroupID:    rapid.String().Draw(t, "groupId"),
			MessageID:  rapid.String().Draw(t, "messageId"),
			AutoAnswer: rapid.String().Draw(t, "autoAnswer"),
		}

		raw, err := marshalPayload(payload)
		if err != nil {
			t.Fatalf("marshalPayload failed: %v", err)
		}

		script := pushOpenScript(raw)
		const open = "window.handlePushOpen("
		start := strings.Index(script, open)
		end := strings.LastIndex(script, ");}}catch")
		if start < 0 || end < 0 {
			t.Fatalf("malformed delivery script: %s", script)
		}

		var back push.Payload
		if err := json.Unmarshal([]byte(script[start+len(open):end]), &back); err != nil {
			t.Fatalf("embedded argument is not valid JSON: %v", err)
		}
		if back != payload {
			t.Fatalf("round-trip payload = %+v, want %+v", back, payload)
		}
	})
}

package push

import "strings"

// Display text defaults. Call events get call-specific wording so a push with
// no notification block still renders something tappable.
const (
	defaultCallTitle    = "Incoming call"
	defaultCallBody     = "Tap to open"
	defaultMessageTitle = "Notification"
)

// Extract normalizes a raw envelope into an actionable Event.
//
// Extraction is total: absent or malformed fields degrade to the empty string
// and never fail the pipeline. The second return value is false when the
// envelope carries none of the recognized identifying fields, in which case
// the event must not be buffered or presented.
func Extract(env Envelope) (Event, bool) {
	data := env.Data

	payload := Payload{
		Type:       data["type"],
		Scope:      data["scope"],
		FromUserID: data["fromUserId"],
		ToUserID:   data["toUserId"],
		CallID:     data["callId"],
		Kind:       data["kind"],
		GroupID:    data["groupId"],
		MessageID:  data["messageId"],
		AutoAnswer: data["autoAnswer"],
	}

	if !payload.Actionable() {
		return Event{}, false
	}

	// Notification block wins as display text; data keys are the fallback.
	var title, body string
	if env.Notification != nil {
		title = env.Notification.Title
		body = env.Notification.Body
	}
	if title == "" {
		title = data["title"]
	}
	if body == "" {
		body = data["body"]
	}

	class := ClassMessage
	if payload.Type == "call" {
		class = ClassCall
	}

	switch class {
	case ClassCall:
		if strings.TrimSpace(title) == "" {
			title = defaultCallTitle
		}
		if strings.TrimSpace(body) == "" {
			body = defaultCallBody
		}
	default:
		if strings.TrimSpace(title) == "" {
			title = defaultMessageTitle
		}
	}

	return Event{
		Payload: payload,
		Class:   class,
		Title:   title,
		Body:    body,
	}, true
}

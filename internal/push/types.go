package push

// Class classifies an actionable push event.
type Class string

const (
	// ClassCall is an incoming call event. Rendered on the calls channel.
	ClassCall Class = "call"
	// ClassMessage is any other actionable event. Rendered on the default channel.
	ClassMessage Class = "message"
)

// Notification is the optional human-readable block of an inbound envelope.
type Notification struct {
	Title string
	Body  string
}

// Envelope is the raw inbound push event as handed over by the transport.
//
// Two shapes arrive here: transport-delivered events (notification block plus
// data map) and launch events repackaged by the platform from a tapped
// notification (data map only). Both reduce to this struct.
type Envelope struct {
	Notification *Notification
	Data         map[string]string
}

// Payload is the canonical normalized push event.
//
// All fields are optional strings. A Payload is immutable once extracted; it is
// superseded by a buffer overwrite or discarded after delivery to the surface.
type Payload struct {
	Type       string `json:"type"`
	Scope      string `json:"scope"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	CallID     string `json:"callId"`
	Kind       string `json:"kind"`
	GroupID    string `json:"groupId"`
	MessageID  string `json:"messageId"`
	AutoAnswer string `json:"autoAnswer"`
}

// Actionable reports whether the payload carries at least one identifying
// field and therefore warrants buffering and presentation.
func (p Payload) Actionable() bool {
	return p.Type != "" || p.CallID != "" || p.FromUserID != "" || p.MessageID != "" || p.GroupID != ""
}

// Data repackages the payload's non-empty fields as a flat string map, the
// shape a tapped notification re-delivers to the launch entry point.
func (p Payload) Data() map[string]string {
	data := make(map[string]string)
	put := func(key, value string) {
		if value != "" {
			data[key] = value
		}
	}
	put("type", p.Type)
	put("scope", p.Scope)
	put("fromUserId", p.FromUserID)
	put("toUserId", p.ToUserID)
	put("callId", p.CallID)
	put("kind", p.Kind)
	put("groupId", p.GroupID)
	put("messageId", p.MessageID)
	put("autoAnswer", p.AutoAnswer)
	return data
}

// Event is a fully normalized actionable push event: the payload plus its
// classification and resolved display text.
type Event struct {
	Payload Payload
	Class   Class
	Title   string
	Body    string
}

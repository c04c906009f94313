package alert

import (
	"context"

	"github.com/shannu/tdp-shell/internal/config"
	"github.com/shannu/tdp-shell/internal/push"
)

// Importance is the channel-level importance bucket.
type Importance string

const (
	ImportanceHigh    Importance = "high"
	ImportanceDefault Importance = "default"
)

// Priority is the per-alert priority hint.
type Priority string

const (
	PriorityMax  Priority = "max"
	PriorityHigh Priority = "high"
)

// Category tells the renderer what kind of alert this is.
type Category string

const (
	CategoryCall    Category = "call"
	CategoryMessage Category = "message"
)

// Sound selects the device sound bucket for an alert.
type Sound string

const (
	SoundRingtone     Sound = "ringtone"
	SoundNotification Sound = "notification"
)

// Channel is a local notification channel owned by the shell.
type Channel struct {
	ID         string
	Name       string
	Importance Importance
}

// Channels holds the two channel buckets the shell presents on.
type Channels struct {
	Calls   Channel
	Default Channel
}

// DefaultChannels returns the built-in channel definitions.
func DefaultChannels() Channels {
	return Channels{
		Calls:   Channel{ID: "calls_channel", Name: "Calls", Importance: ImportanceHigh},
		Default: Channel{ID: "default_channel", Name: "General", Importance: ImportanceDefault},
	}
}

// ChannelsFromConfig overlays configured channel definitions on the built-in
// defaults. A nil or partial config keeps the defaults for whatever it omits.
func ChannelsFromConfig(cfg *config.ChannelConfig) Channels {
	channels := DefaultChannels()
	if cfg == nil {
		return channels
	}
	overlay := func(dst *Channel, spec config.ChannelSpec) {
		if spec.ID != "" {
			dst.ID = spec.ID
		}
		if spec.Name != "" {
			dst.Name = spec.Name
		}
		if spec.Importance != "" {
			dst.Importance = Importance(spec.Importance)
		}
	}
	overlay(&channels.Calls, cfg.Calls)
	overlay(&channels.Default, cfg.Default)
	return channels
}

// Alert is the fully built description of one locally displayed notification.
// The rendering collaborator owns the on-screen artifact; the shell does not
// retain an Alert after posting it.
type Alert struct {
	ID          string
	ChannelID   string
	ChannelName string
	Importance  Importance
	Title       string
	Body        string
	Sound       Sound
	Priority    Priority
	Category    Category

	// TapAction carries the payload fields back through the launch entry
	// point when the user taps the alert.
	TapAction push.Envelope
}

// Notifier is the external notification-rendering collaborator.
type Notifier interface {
	// EnsureChannel declares a channel. Must be idempotent; the presenter
	// calls it before every post.
	EnsureChannel(ctx context.Context, channel Channel) error

	// Post hands a built alert to the renderer.
	Post(ctx context.Context, alert Alert) error
}

package alert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shannu/tdp-shell/internal/logger"
	"github.com/shannu/tdp-shell/internal/push"
)

// Presenter maps actionable push events to locally displayed alerts.
//
// Presentation is best-effort: a failed post is logged and dropped, because
// the payload has already been buffered for in-surface delivery and the user
// can still reach it by opening the app. Delivery-to-surface is the durable
// guarantee, not the alert.
type Presenter struct {
	notifier Notifier
	channels Channels
	logger   *logger.Logger
}

// NewPresenter creates a presenter posting through the given notifier.
func NewPresenter(notifier Notifier, channels Channels, log *logger.Logger) *Presenter {
	return &Presenter{
		notifier: notifier,
		channels: channels,
		logger:   log,
	}
}

// Present builds and posts an alert for the event.
//
// The channel, sound, priority, and category are selected by the event class:
// calls ring on the high-importance calls channel, everything else lands on
// the default channel. Each alert gets a fresh ID so concurrent alerts of
// different kinds do not replace one another.
func (p *Presenter) Present(ctx context.Context, event push.Event) error {
	log := p.logger.WithContext(ctx).WithComponent("presenter")

	channel := p.channels.Default
	sound := SoundNotification
	priority := PriorityHigh
	category := CategoryMessage
	if event.Class == push.ClassCall {
		channel = p.channels.Calls
		sound = SoundRingtone
		priority = PriorityMax
		category = CategoryCall
	}

	// Channel declaration is idempotent, so it is safe (and required for the
	// first alert after install) to do it on every present.
	if err := p.notifier.EnsureChannel(ctx, channel); err != nil {
		log.Warn("failed to ensure notification channel",
			slog.String("channel_id", channel.ID),
			slog.String("error", err.Error()))
		return fmt.Errorf("ensure channel %s: %w", channel.ID, err)
	}

	built := Alert{
		ID:          uuid.New().String(),
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		Importance:  channel.Importance,
		Title:       event.Title,
		Body:        event.Body,
		Sound:       sound,
		Priority:    priority,
		Category:    category,
		TapAction:   push.Envelope{Data: event.Payload.Data()},
	}

	if err := p.notifier.Post(ctx, built); err != nil {
		log.Warn("failed to post alert",
			slog.String("alert_id", built.ID),
			slog.String("channel_id", built.ChannelID),
			slog.String("class", string(event.Class)),
			slog.String("error", err.Error()))
		return fmt.Errorf("post alert: %w", err)
	}

	log.Debug("alert posted",
		slog.String("alert_id", built.ID),
		slog.String("channel_id", built.ChannelID),
		slog.String("class", string(event.Class)))

	return nil
}

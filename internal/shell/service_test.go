package shell

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shannu/tdp-shell/internal/alert"
	"github.com/shannu/tdp-shell/internal/logger"
	"github.com/shannu/tdp-shell/internal/push"
)

type fakeNotifier struct {
	alerts  []alert.Alert
	postErr error
}

func (f *fakeNotifier) EnsureChannel(context.Context, alert.Channel) error { return nil }

func (f *fakeNotifier) Post(_ context.Context, a alert.Alert) error {
	if f.postErr != nil {
		return f.postErr
	}
	f.alerts = append(f.alerts, a)
	return nil
}

type fakeSurface struct {
	evals []string
}

func (f *fakeSurface) EvalJS(js string) error {
	f.evals = append(f.evals, js)
	return nil
}

func (f *fakeSurface) deliveries() []string {
	var out []string
	for _, js := range f.evals {
		if strings.Contains(js, "handlePushOpen") {
			out = append(out, js)
		}
	}
	return out
}

type fakeTokens struct{}

func (fakeTokens) Token(context.Context) (string, error) { return "", nil }

func newTestPipeline() (*Service, *fakeNotifier, *fakeSurface) {
	log := logger.New(logger.Config{Level: slog.LevelError})
	notifier := &fakeNotifier{}
	surface := &fakeSurface{}
	svc := NewPipeline(surface, notifier, fakeTokens{}, alert.DefaultChannels(), log)
	return svc, notifier, surface
}

func payloadFromScript(t *testing.T, js string) push.Payload {
	t.Helper()
	const open = "window.handlePushOpen("
	start := strings.Index(js, open)
	end := strings.LastIndex(js, ");}}catch")
	require.GreaterOrEqual(t, start, 0, "delivery script missing hook call: %s", js)
	require.Greater(t, end, start)

	var payload push.Payload
	require.NoError(t, json.Unmarshal([]byte(js[start+len(open):end]), &payload))
	return payload
}

// TestMessageEventEndToEnd walks the full pipeline: resident message receipt,
// alert presentation, tap with no live surface yet, then delivery on the
// first ready transition.
func TestMessageEventEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, notifier, surface := newTestPipeline()

	env := push.Envelope{Data: map[string]string{
		"type":       "message",
		"fromUserId": "u1",
		"messageId":  "m42",
	}}

	// Push arrives while resident. An alert is presented on the default
	// channel with the fallback title.
	svc.OnMessage(ctx, env)
	require.Len(t, notifier.alerts, 1)
	require.Equal(t, "default_channel", notifier.alerts[0].ChannelID)
	require.Equal(t, "Notification", notifier.alerts[0].Title)

	// The user taps the alert before any surface exists: the tap action
	// re-enters through the launch path and is buffered, not delivered.
	svc.OnLaunch(ctx, notifier.alerts[0].TapAction)
	require.Empty(t, surface.deliveries())

	// First ready transition drains the buffer exactly once.
	svc.OnPageReady(ctx)
	deliveries := surface.deliveries()
	require.Len(t, deliveries, 1)

	payload := payloadFromScript(t, deliveries[0])
	require.Equal(t, "message", payload.Type)
	require.Equal(t, "u1", payload.FromUserID)
	require.Equal(t, "m42", payload.MessageID)

	// Reload without a new event delivers nothing further.
	svc.OnPageReady(ctx)
	require.Len(t, surface.deliveries(), 1)
}

func TestNonActionableEventIsDiscarded(t *testing.T) {
	ctx := context.Background()
	svc, notifier, surface := newTestPipeline()

	svc.OnMessage(ctx, push.Envelope{
		Notification: &push.Notification{Title: "hi", Body: "there"},
	})

	require.Empty(t, notifier.alerts, "non-actionable event must not present")

	svc.OnPageReady(ctx)
	require.Empty(t, surface.deliveries(), "non-actionable event must not deliver")
}

func TestReentryWhileReadyDeliversImmediately(t *testing.T) {
	ctx := context.Background()
	svc, _, surface := newTestPipeline()

	svc.OnPageReady(ctx)
	require.Empty(t, surface.deliveries())

	svc.OnReentry(ctx, push.Envelope{Data: map[string]string{
		"type":   "call",
		"callId": "c9",
	}})

	deliveries := surface.deliveries()
	require.Len(t, deliveries, 1)
	require.Equal(t, "c9", payloadFromScript(t, deliveries[0]).CallID)
}

func TestReentryWithNonActionableEnvelopeIsNoOp(t *testing.T) {
	ctx := context.Background()
	svc, _, surface := newTestPipeline()

	svc.OnPageReady(ctx)
	svc.OnReentry(ctx, push.Envelope{})
	require.Empty(t, surface.deliveries())
}

func TestPresentationFailureStillBuffers(t *testing.T) {
	ctx := context.Background()
	svc, notifier, surface := newTestPipeline()
	notifier.postErr = errors.New("notifications not permitted")

	svc.OnMessage(ctx, push.Envelope{Data: map[string]string{
		"type":      "message",
		"messageId": "m1",
	}})
	require.Empty(t, notifier.alerts)

	// The user opens the app by other means; the payload is still there.
	svc.OnPageReady(ctx)
	deliveries := surface.deliveries()
	require.Len(t, deliveries, 1)
	require.Equal(t, "m1", payloadFromScript(t, deliveries[0]).MessageID)
}

func TestNewestEventSupersedesBufferedOne(t *testing.T) {
	ctx := context.Background()
	svc, _, surface := newTestPipeline()

	svc.OnMessage(ctx, push.Envelope{Data: map[string]string{"messageId": "old"}})
	svc.OnMessage(ctx, push.Envelope{Data: map[string]string{"messageId": "new"}})

	svc.OnPageReady(ctx)
	deliveries := surface.deliveries()
	require.Len(t, deliveries, 1)
	require.Equal(t, "new", payloadFromScript(t, deliveries[0]).MessageID)
}

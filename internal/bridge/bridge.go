// Package bridge delivers pending push payloads into the live web surface.
//
// The bridge is a small state machine: NotReady until the surface reports its
// first page load, Ready afterwards. On every Ready transition and on every
// re-entry event while Ready it drains the pending-delivery buffer into the
// surface's well-known handlePushOpen hook. Delivery is at-most-once and
// best-effort: once a payload is taken from the buffer it is consumed, even
// if the evaluation call fails.
package bridge

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/shannu/tdp-shell/internal/logger"
	"github.com/shannu/tdp-shell/internal/push"
)

// Surface is the embedded web surface collaborator. EvalJS is fire-and-forget
// string evaluation; no return value is consumed.
type Surface interface {
	EvalJS(js string) error
}

// TokenSource is the push-token issuance collaborator. It manages its own
// refresh and retry policy; the bridge fetches once per page load and ignores
// failures.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Bridge connects the pending-delivery buffer to the web surface.
type Bridge struct {
	surface Surface
	tokens  TokenSource
	pending *push.Pending
	logger  *logger.Logger

	mu    sync.Mutex
	ready bool
}

// New creates a bridge in the NotReady state.
func New(surface Surface, tokens TokenSource, pending *push.Pending, log *logger.Logger) *Bridge {
	return &Bridge{
		surface: surface,
		tokens:  tokens,
		pending: pending,
		logger:  log,
	}
}

// Ready reports whether the surface has completed at least one page load.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// PageReady marks the surface Ready, injects the current push token, and
// drains any pending payload. Fires on every page-load completion; the token
// fetch and the drain both repeat per load.
func (b *Bridge) PageReady(ctx context.Context) {
	b.mu.Lock()
	b.ready = true
	b.mu.Unlock()

	b.injectToken(ctx)
	b.deliverPending(ctx)
}

// Reentry attempts delivery for a re-entry event. While the surface is still
// NotReady this is a no-op: the payload stays buffered and the next Ready
// transition delivers it, so no event is lost to ordering between app launch
// and page load.
func (b *Bridge) Reentry(ctx context.Context) {
	if !b.Ready() {
		b.logger.WithContext(ctx).WithComponent("bridge").
			Debug("re-entry before surface ready, payload held for next ready transition")
		return
	}
	b.deliverPending(ctx)
}

// deliverPending takes the buffered payload, if any, and evaluates it into
// the surface. The take consumes the payload; an evaluation failure is logged
// and swallowed, never retried.
func (b *Bridge) deliverPending(ctx context.Context) {
	log := b.logger.WithContext(ctx).WithComponent("bridge")

	payload, ok := b.pending.TakeIfPresent()
	if !ok {
		return
	}

	payloadJSON, err := marshalPayload(payload)
	if err != nil {
		// Payloads are flat string structs, so this cannot happen in
		// practice. The payload is consumed either way.
		log.Error("failed to serialize payload", slog.String("error", err.Error()))
		return
	}

	if err := b.surface.EvalJS(pushOpenScript(payloadJSON)); err != nil {
		log.Warn("push delivery to surface failed, payload dropped",
			slog.String("error", err.Error()))
		return
	}

	log.Info("push payload delivered to surface",
		slog.String("type", payload.Type),
		slog.String("call_id", payload.CallID),
		slog.String("message_id", payload.MessageID))
}

// injectToken fetches the push token and hands it to the surface. Failures
// and empty results take no action; the next page load retries implicitly.
func (b *Bridge) injectToken(ctx context.Context) {
	log := b.logger.WithContext(ctx).WithComponent("bridge")

	token, err := b.tokens.Token(ctx)
	if err != nil {
		log.Warn("push token fetch failed", slog.String("error", err.Error()))
		return
	}
	if strings.TrimSpace(token) == "" {
		return
	}

	if err := b.surface.EvalJS(tokenScript(token)); err != nil {
		log.Warn("push token injection failed", slog.String("error", err.Error()))
	}
}

// Package shell wires the push pipeline together: extract, buffer, present,
// deliver. Cold start, warm re-entry, and resident message delivery all flow
// through the same extract-then-buffer-then-deliver-on-ready path.
package shell

import (
	"context"
	"log/slog"

	"github.com/shannu/tdp-shell/internal/alert"
	"github.com/shannu/tdp-shell/internal/bridge"
	"github.com/shannu/tdp-shell/internal/logger"
	"github.com/shannu/tdp-shell/internal/push"
)

// Service is the push pipeline orchestrator.
//
// None of its entry points ever fail: every error in extraction, presentation,
// or delivery is contained and logged. The shell must not crash or surface an
// error state because of a bad push.
type Service struct {
	pending   *push.Pending
	presenter *alert.Presenter
	bridge    *bridge.Bridge
	logger    *logger.Logger
}

// NewService creates the orchestrator from pre-wired components. The bridge
// must share the same pending buffer.
func NewService(pending *push.Pending, presenter *alert.Presenter, b *bridge.Bridge, log *logger.Logger) *Service {
	return &Service{
		pending:   pending,
		presenter: presenter,
		bridge:    b,
		logger:    log,
	}
}

// NewPipeline wires a complete pipeline from the external collaborators.
func NewPipeline(surface bridge.Surface, notifier alert.Notifier, tokens bridge.TokenSource, channels alert.Channels, log *logger.Logger) *Service {
	pending := push.NewPending()
	presenter := alert.NewPresenter(notifier, channels, log)
	b := bridge.New(surface, tokens, pending, log)
	return NewService(pending, presenter, b, log)
}

// Bridge exposes the surface bridge so the embedding can forward page-load
// signals from its web view callbacks.
func (s *Service) Bridge() *bridge.Bridge {
	return s.bridge
}

// OnMessage handles a push event delivered while the process is resident.
// Actionable events are buffered first, then presented; presentation failures
// do not block later in-surface delivery.
func (s *Service) OnMessage(ctx context.Context, env push.Envelope) {
	log := s.logger.WithContext(ctx).WithComponent("shell")

	event, ok := push.Extract(env)
	if !ok {
		log.Debug("dropping non-actionable push event")
		return
	}

	s.pending.Set(event.Payload)

	if err := s.presenter.Present(ctx, event); err != nil {
		// Already logged by the presenter; the payload stays buffered.
		log.Debug("presentation failed, payload remains buffered",
			slog.String("class", string(event.Class)))
	}
}

// OnLaunch captures a payload from a cold-start launch event. The surface
// does not exist yet, so the payload is buffered for the first Ready
// transition; no alert is re-presented.
func (s *Service) OnLaunch(ctx context.Context, env push.Envelope) {
	log := s.logger.WithContext(ctx).WithComponent("shell")

	event, ok := push.Extract(env)
	if !ok {
		return
	}

	s.pending.Set(event.Payload)
	log.Debug("launch payload buffered",
		slog.String("class", string(event.Class)),
		slog.String("type", event.Payload.Type))
}

// OnReentry handles a warm re-entry event (a notification tapped while the
// process is already running). The payload is buffered newest-wins and the
// bridge attempts immediate delivery if the surface is Ready.
func (s *Service) OnReentry(ctx context.Context, env push.Envelope) {
	event, ok := push.Extract(env)
	if ok {
		s.pending.Set(event.Payload)
	}
	s.bridge.Reentry(ctx)
}

// OnPageReady forwards the surface's page-load completion signal.
func (s *Service) OnPageReady(ctx context.Context) {
	s.bridge.PageReady(ctx)
}

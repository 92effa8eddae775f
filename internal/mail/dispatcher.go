package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/TamilarasanG17/VT-Wallet/internal/core/events"
)

// Dispatcher bridges the event bus and the mailer: it subscribes to code
// issued events and delivers each code out of band of the HTTP request.
type Dispatcher struct {
	mailer Mailer
	logger *slog.Logger
}

func NewDispatcher(mailer Mailer, lg *slog.Logger) *Dispatcher {
	if lg == nil {
		lg = slog.Default()
	}
	return &Dispatcher{mailer: mailer, logger: lg}
}

func (d *Dispatcher) RegisterHandlers(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeCodeIssued, d.handleCodeIssued)
}

func (d *Dispatcher) handleCodeIssued(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.CodeIssuedEvent)
	if !ok {
		return fmt.Errorf("unexpected payload for %s event", event.EventType())
	}

	if err := d.mailer.SendCode(e.Email, e.Username, e.Code, e.Purpose); err != nil {
		d.logger.Error("failed to deliver one-time code", "purpose", e.Purpose, "error", err)
		return err
	}

	d.logger.Info("one-time code delivered", "purpose", e.Purpose)
	return nil
}

package notify

import (
	"context"

	"procurehub-be/internal/logger"

	"go.uber.org/zap"
)

// Event describes an order change worth telling the notification collaborator
// about.
type Event struct {
	OrderID    string
	CustomerID string
	ActorID    string
	Action     string
	Status     string
}

// Notifier delivers events to an external channel (email, chat). Delivery is
// best-effort; implementations must not be relied on for correctness.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier is the default sink: it just records the event.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event Event) error {
	logger.FromCtx(ctx).Info("order notification",
		zap.String("order_id", event.OrderID),
		zap.String("customer_id", event.CustomerID),
		zap.String("action", event.Action),
		zap.String("status", event.Status),
	)
	return nil
}

// Dispatcher fans events out asynchronously so a slow or failing channel never
// blocks or fails an order mutation. Errors are logged and dropped.
type Dispatcher struct {
	sink Notifier
}

func NewDispatcher(sink Notifier) *Dispatcher {
	return &Dispatcher{sink: sink}
}

func (d *Dispatcher) Notify(ctx context.Context, event Event) error {
	// Detach from the request context; the caller's deadline must not cancel
	// the delivery attempt.
	go func() {
		if err := d.sink.Notify(context.Background(), event); err != nil {
			logger.L().Warn("notification delivery failed",
				zap.String("order_id", event.OrderID),
				zap.String("action", event.Action),
				zap.Error(err),
			)
		}
	}()
	return nil
}

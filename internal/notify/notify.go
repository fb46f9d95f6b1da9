package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/codekart/codekart/internal/mailer"
	"github.com/codekart/codekart/internal/models"
	"github.com/codekart/codekart/internal/mykafka"
)

const (
	ordersTopic     = "order_events"
	dispatchTimeout = 15 * time.Second
)

// Dispatcher delivers order-lifecycle notifications (mail + event stream)
// off the request path. The order mutation has already committed when a
// dispatch method is called; delivery failures are logged, never surfaced,
// so checkout success does not depend on the mail transport.
type Dispatcher struct {
	Mailer   mailer.Mailer
	Producer *mykafka.Producer
	Log      *slog.Logger

	wg sync.WaitGroup
}

func NewDispatcher(m mailer.Mailer, p *mykafka.Producer, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{Mailer: m, Producer: p, Log: log}
}

// OrderCreated fires the admin alert and the customer confirmation.
func (d *Dispatcher) OrderCreated(order *models.Order) {
	d.dispatch("order_created", order, func(ctx context.Context) error {
		if err := d.Mailer.SendOrderAlert(ctx, order); err != nil {
			return fmt.Errorf("admin alert: %w", err)
		}
		if err := d.Mailer.SendOrderConfirmation(ctx, order); err != nil {
			return fmt.Errorf("customer confirmation: %w", err)
		}
		return nil
	})
}

// PaymentConfirmed fires after a gateway session is verified as paid.
func (d *Dispatcher) PaymentConfirmed(order *models.Order) {
	d.dispatch("payment_confirmed", order, func(ctx context.Context) error {
		if err := d.Mailer.SendOrderAlert(ctx, order); err != nil {
			return fmt.Errorf("admin alert: %w", err)
		}
		if err := d.Mailer.SendOrderConfirmation(ctx, order); err != nil {
			return fmt.Errorf("customer confirmation: %w", err)
		}
		return nil
	})
}

// PaymentReceived fires after a manual payment proof is attached.
func (d *Dispatcher) PaymentReceived(order *models.Order) {
	d.dispatch("payment_received", order, func(ctx context.Context) error {
		if err := d.Mailer.SendPaymentReceipt(ctx, order); err != nil {
			return fmt.Errorf("payment receipt: %w", err)
		}
		return nil
	})
}

func (d *Dispatcher) dispatch(kind string, order *models.Order, send func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if d.Producer != nil {
			event := map[string]interface{}{
				"type":           kind,
				"order_id":       order.ID,
				"total_amount":   order.TotalAmount,
				"status":         order.Status,
				"payment_status": order.PaymentStatus,
			}
			if err := d.Producer.PublishEvent(ctx, ordersTopic, fmt.Sprint(order.ID), event); err != nil {
				d.Log.Error("kafka publish failed", "event", kind, "order_id", order.ID, "error", err)
			}
		}

		if d.Mailer != nil {
			if err := send(ctx); err != nil {
				d.Log.Error("notification mail failed", "event", kind, "order_id", order.ID, "error", err)
			}
		}
	}()
}

// Close waits for in-flight notifications, used on shutdown.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}

// Package notify relays new orders to bar staff over WhatsApp, either by
// sending the message directly through Twilio or by producing a wa.me link
// that staff open by hand.
package notify

import (
	"context"

	applog "cocktailbar/internal/log"
	"cocktailbar/models"
)

// Sender delivers a message body and returns the provider's delivery id.
type Sender interface {
	Send(ctx context.Context, body string) (string, error)
}

// Outcome names the branch of the delivery chain that was taken.
type Outcome string

const (
	// OutcomeDelivered means the provider accepted the message.
	OutcomeDelivered Outcome = "delivered"
	// OutcomeManual means only a manual link is configured.
	OutcomeManual Outcome = "manual"
	// OutcomeFallback means direct delivery failed and a manual link is offered instead.
	OutcomeFallback Outcome = "fallback"
	// OutcomeNone means nothing was sent and no link is available.
	OutcomeNone Outcome = "none"
)

// Result describes what happened to an order notification. Err carries the
// direct delivery failure, if any; it is informational only.
type Result struct {
	Outcome    Outcome
	DeliveryID string
	ManualURL  string
	Err        error
}

// Fallback reports whether the manual link replaces a failed direct send.
func (r Result) Fallback() bool {
	return r.Outcome == OutcomeFallback
}

// Config selects the delivery strategies.
type Config struct {
	WhatsAppNumber string
	Twilio         TwilioConfig
}

// Dispatcher runs the delivery chain: direct send, then manual link, then
// nothing.
type Dispatcher struct {
	sender Sender
	number string
}

// NewDispatcher wires a Twilio sender when fully configured.
func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{number: NormalizeNumber(cfg.WhatsAppNumber)}
	if client, err := NewTwilioClient(cfg.Twilio); err == nil {
		d.sender = client
	}
	return d
}

// NewDispatcherWithSender builds a dispatcher around an arbitrary sender.
// A nil sender disables direct delivery.
func NewDispatcherWithSender(sender Sender, number string) *Dispatcher {
	return &Dispatcher{sender: sender, number: NormalizeNumber(number)}
}

// DirectEnabled reports whether direct delivery is configured.
func (d *Dispatcher) DirectEnabled() bool {
	return d != nil && d.sender != nil
}

// Configured reports whether any delivery strategy is available.
func (d *Dispatcher) Configured() bool {
	return d != nil && (d.sender != nil || d.number != "")
}

// Dispatch notifies staff about order. It never fails: a direct delivery
// error is logged and reported in Result.Err.
func (d *Dispatcher) Dispatch(ctx context.Context, order models.Order) Result {
	if d == nil {
		return Result{Outcome: OutcomeNone}
	}

	message := BuildMessage(order)
	manual := DeepLink(d.number, message)

	if d.sender != nil {
		id, err := d.sender.Send(ctx, message)
		if err == nil {
			applog.Debug(ctx, "order notification delivered", "order", order.ID, "deliveryID", id)
			return Result{Outcome: OutcomeDelivered, DeliveryID: id}
		}
		applog.Error(ctx, "order notification failed", "order", order.ID, "error", err)
		if manual != "" {
			return Result{Outcome: OutcomeFallback, ManualURL: manual, Err: err}
		}
		return Result{Outcome: OutcomeNone, Err: err}
	}

	if manual != "" {
		return Result{Outcome: OutcomeManual, ManualURL: manual}
	}
	return Result{Outcome: OutcomeNone}
}

package entities

// WebhookEvent is the inbound payment-provider payload. Transient: it only
// drives a transition and is never persisted.
type WebhookEvent struct {
	Event   string         `json:"event" binding:"required"`
	Payment WebhookPayment `json:"payment" binding:"required"`
}

// WebhookPayment carries the provider's view of the payment.
type WebhookPayment struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	ExternalReference string  `json:"externalReference"`
	Value             float64 `json:"value"`
	Customer          string  `json:"customer"`
	Payer             string  `json:"payer"`
}

// webhookTriggers maps provider event kinds onto state-machine triggers. New
// event kinds are added here as rows, keeping the mapping auditable.
var webhookTriggers = map[string]TransitionTrigger{
	"PAYMENT_CONFIRMED": TriggerPaymentConfirmed,
	"PAYMENT_RECEIVED":  TriggerPaymentConfirmed,
	"PAYMENT_OVERDUE":   TriggerPaymentFailed,
	"PAYMENT_DELETED":   TriggerPaymentFailed,
	"PAYMENT_REFUNDED":  TriggerPaymentRefunded,
}

// Trigger resolves the event kind to a transition trigger. ok=false means the
// event kind is not one we act on; such deliveries are acknowledged untouched.
func (e *WebhookEvent) Trigger() (TransitionTrigger, bool) {
	t, ok := webhookTriggers[e.Event]
	return t, ok
}

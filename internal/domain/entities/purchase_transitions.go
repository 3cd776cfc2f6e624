package entities

// TransitionTrigger identifies what is asking the purchase to change state.
// Webhook events and admin actions both funnel into the same triggers so every
// caller gets identical no-op semantics on replay.
type TransitionTrigger string

const (
	TriggerPaymentConfirmed TransitionTrigger = "PAYMENT_CONFIRMED"
	TriggerPaymentFailed    TransitionTrigger = "PAYMENT_FAILED"
	TriggerPaymentRefunded  TransitionTrigger = "PAYMENT_REFUNDED"
	TriggerAdminMarkPaid    TransitionTrigger = "ADMIN_MARK_PAID"
	TriggerRefundAccepted   TransitionTrigger = "REFUND_ACCEPTED"
	TriggerRefundRejected   TransitionTrigger = "REFUND_REJECTED"
)

// TransitionEffect is a side effect the caller must execute when a transition
// is applied. The state machine itself performs no I/O.
type TransitionEffect string

const (
	// EffectStampPayment records PaidAt and the gateway payment id.
	EffectStampPayment TransitionEffect = "STAMP_PAYMENT"
	// EffectDispatchJob enqueues exactly one processing job for the report worker.
	EffectDispatchJob TransitionEffect = "DISPATCH_JOB"
)

// Transition is one legal edge of the purchase state graph.
type Transition struct {
	Next    PurchaseStatus
	Effects []TransitionEffect
}

// TransitionResult reports what applying a trigger did. Applied=false means the
// trigger is not legal from the current state and nothing changed; replayed
// webhook deliveries land here instead of raising errors.
type TransitionResult struct {
	Applied bool
	Next    PurchaseStatus
	Effects []TransitionEffect
}

var paidEffects = []TransitionEffect{EffectStampPayment, EffectDispatchJob}

var refundEdges = map[TransitionTrigger]Transition{
	TriggerPaymentRefunded: {Next: PurchaseStatusRefunded},
	TriggerRefundAccepted:  {Next: PurchaseStatusRefunded},
	TriggerRefundRejected:  {Next: PurchaseStatusRefundFailed},
}

// transitionTable is the exhaustive state graph. Future triggers are added as
// table rows, never as new conditional logic.
var transitionTable = map[PurchaseStatus]map[TransitionTrigger]Transition{
	PurchaseStatusPending: {
		TriggerPaymentConfirmed: {Next: PurchaseStatusPaid, Effects: paidEffects},
		TriggerAdminMarkPaid:    {Next: PurchaseStatusPaid, Effects: paidEffects},
		TriggerPaymentFailed:    {Next: PurchaseStatusFailed},
		TriggerPaymentRefunded:  {Next: PurchaseStatusRefunded},
	},
	PurchaseStatusPaid:       refundEdges,
	PurchaseStatusProcessing: refundEdges,
	PurchaseStatusCompleted:  refundEdges,
	PurchaseStatusFailed: {
		TriggerPaymentRefunded: {Next: PurchaseStatusRefunded},
	},
	PurchaseStatusRefundFailed: {
		TriggerPaymentRefunded: {Next: PurchaseStatusRefunded},
	},
}

// ApplyTransition evaluates a trigger against the current status. It is a pure
// function: the caller owns persisting the new status and running the effects.
func ApplyTransition(current PurchaseStatus, trigger TransitionTrigger) TransitionResult {
	edges, ok := transitionTable[current]
	if !ok {
		return TransitionResult{Applied: false, Next: current}
	}
	t, ok := edges[trigger]
	if !ok {
		return TransitionResult{Applied: false, Next: current}
	}
	return TransitionResult{Applied: true, Next: t.Next, Effects: t.Effects}
}

// HasEffect reports whether the result carries the given effect.
func (r TransitionResult) HasEffect(effect TransitionEffect) bool {
	for _, e := range r.Effects {
		if e == effect {
			return true
		}
	}
	return false
}

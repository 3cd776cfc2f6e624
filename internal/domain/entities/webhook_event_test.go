package entities

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWebhookEvent_Trigger(t *testing.T) {
	tests := []struct {
		event   string
		want    TransitionTrigger
		handled bool
	}{
		{"PAYMENT_CONFIRMED", TriggerPaymentConfirmed, true},
		{"PAYMENT_RECEIVED", TriggerPaymentConfirmed, true},
		{"PAYMENT_OVERDUE", TriggerPaymentFailed, true},
		{"PAYMENT_DELETED", TriggerPaymentFailed, true},
		{"PAYMENT_REFUNDED", TriggerPaymentRefunded, true},
		{"PAYMENT_UPDATED", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.event, func(t *testing.T) {
			e := &WebhookEvent{Event: tt.event}
			got, ok := e.Trigger()
			require.Equal(t, tt.handled, ok)
			if tt.handled {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPurchase_CanRefund(t *testing.T) {
	p := &Purchase{}
	require.False(t, p.CanRefund())

	p.AsaasPaymentID.SetValid("")
	require.False(t, p.CanRefund())

	p.AsaasPaymentID.SetValid("pay_123")
	require.True(t, p.CanRefund())
}

func TestUser_IsAdmin(t *testing.T) {
	require.True(t, (&User{Role: UserRoleAdmin}).IsAdmin())
	require.False(t, (&User{Role: UserRoleUser}).IsAdmin())
	require.False(t, (&User{}).IsAdmin())
}

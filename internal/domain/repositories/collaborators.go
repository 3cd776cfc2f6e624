package repositories

import (
	"context"

	"github.com/google/uuid"
)

// ReportJob is the correlation payload forwarded to the report worker.
type ReportJob struct {
	PurchaseID   uuid.UUID `json:"purchaseId"`
	PurchaseCode string    `json:"purchaseCode"`
	Term         string    `json:"term"`
	DocumentType string    `json:"documentType"`
	Email        string    `json:"email"`
}

// JobQueue dispatches processing jobs to the external report worker.
// Delivery is at-least-once; the purchase id is the idempotency key.
type JobQueue interface {
	Dispatch(ctx context.Context, job ReportJob) error
}

// RefundResult is the payment gateway's reported refund outcome.
type RefundResult struct {
	Success  bool   `json:"success"`
	RefundID string `json:"refundId"`
}

// PaymentGateway is the outbound payment-provider client.
type PaymentGateway interface {
	Refund(ctx context.Context, paymentID string) (*RefundResult, error)
}

package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// PurchaseStatus represents the lifecycle state of a report purchase
type PurchaseStatus string

const (
	PurchaseStatusPending      PurchaseStatus = "PENDING"
	PurchaseStatusPaid         PurchaseStatus = "PAID"
	PurchaseStatusProcessing   PurchaseStatus = "PROCESSING"
	PurchaseStatusCompleted    PurchaseStatus = "COMPLETED"
	PurchaseStatusFailed       PurchaseStatus = "FAILED"
	PurchaseStatusRefunded     PurchaseStatus = "REFUNDED"
	PurchaseStatusRefundFailed PurchaseStatus = "REFUND_FAILED"
)

// Purchase represents one paid report request
type Purchase struct {
	ID             uuid.UUID      `json:"id"`
	Code           string         `json:"code"`
	UserID         uuid.UUID      `json:"userId"`
	Term           string         `json:"term"`
	Status         PurchaseStatus `json:"status"`
	ProcessingStep int            `json:"processingStep"`
	Amount         string         `json:"amount"`
	BuyerName      string         `json:"buyerName"`
	AsaasPaymentID null.String    `json:"asaasPaymentId,omitempty"`
	PaidAt         null.Time      `json:"paidAt,omitempty"`
	SearchResultID *uuid.UUID     `json:"searchResultId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	User *User `json:"user,omitempty"`
}

// CanRefund reports whether a refund request may even be attempted. The state
// restriction is part of the transition table; the payment id is a separate
// precondition because without it the gateway has nothing to refund.
func (p *Purchase) CanRefund() bool {
	return p.AsaasPaymentID.Valid && p.AsaasPaymentID.String != ""
}

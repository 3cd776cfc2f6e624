package usecases

import (
	"context"
	"time"

	"go.uber.org/zap"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
	"doc-check.backend/pkg/logger"
	"doc-check.backend/pkg/metrics"
	"doc-check.backend/pkg/utils"
)

// Webhook evaluation outcomes, reported back to the handler and to metrics.
const (
	WebhookOutcomeApplied          = "applied"
	WebhookOutcomeNoOp             = "no_op"
	WebhookOutcomeIgnoredEvent     = "ignored_event"
	WebhookOutcomeUnknownReference = "unknown_reference"
)

// WebhookOutcome reports what a single delivery did. Applied=false with a nil
// error is the idempotent acknowledge path: the provider gets a 2xx and stops
// retrying.
type WebhookOutcome struct {
	Outcome string                  `json:"outcome"`
	Applied bool                    `json:"applied"`
	Status  entities.PurchaseStatus `json:"status,omitempty"`
}

// WebhookUsecase maps payment-provider events onto purchase transitions
type WebhookUsecase struct {
	purchaseRepo repositories.PurchaseRepository
	userRepo     repositories.UserRepository
	jobQueue     repositories.JobQueue
	uow          repositories.UnitOfWork
}

// NewWebhookUsecase creates a new webhook usecase
func NewWebhookUsecase(
	purchaseRepo repositories.PurchaseRepository,
	userRepo repositories.UserRepository,
	jobQueue repositories.JobQueue,
	uow repositories.UnitOfWork,
) *WebhookUsecase {
	return &WebhookUsecase{
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		jobQueue:     jobQueue,
		uow:          uow,
	}
}

// ProcessPaymentWebhook applies one provider delivery to the purchase it
// references. Transition, payment stamping and job dispatch happen inside one
// transaction: if the queue is down the whole delivery rolls back and the
// provider retries. Replays resolve to a no-op without touching the purchase.
func (u *WebhookUsecase) ProcessPaymentWebhook(ctx context.Context, event *entities.WebhookEvent) (*WebhookOutcome, error) {
	trigger, ok := event.Trigger()
	if !ok {
		logger.Info(ctx, "Ignoring unhandled webhook event", zap.String("event", event.Event))
		metrics.WebhookEvents.WithLabelValues(event.Event, WebhookOutcomeIgnoredEvent).Inc()
		return &WebhookOutcome{Outcome: WebhookOutcomeIgnoredEvent}, nil
	}

	code := utils.NormalizeCode(event.Payment.ExternalReference)
	if code == "" {
		return nil, domainerrors.BadRequest("missing externalReference")
	}

	outcome := &WebhookOutcome{Outcome: WebhookOutcomeNoOp}
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		purchase, err := u.purchaseRepo.GetByCode(lockCtx, code)
		if err != nil {
			return err
		}

		res := entities.ApplyTransition(purchase.Status, trigger)
		outcome.Status = purchase.Status
		if !res.Applied {
			// Replay or out-of-order delivery. Acknowledge without effect.
			return nil
		}

		purchase.Status = res.Next
		if res.HasEffect(entities.EffectStampPayment) {
			purchase.PaidAt.SetValid(time.Now())
			if !purchase.AsaasPaymentID.Valid && event.Payment.ID != "" {
				purchase.AsaasPaymentID.SetValid(event.Payment.ID)
			}
		}
		if err := u.purchaseRepo.Update(lockCtx, purchase); err != nil {
			return err
		}

		if res.HasEffect(entities.EffectDispatchJob) {
			if err := u.dispatchJob(lockCtx, purchase); err != nil {
				return domainerrors.Downstream("failed to dispatch processing job", err)
			}
		}

		outcome.Outcome = WebhookOutcomeApplied
		outcome.Applied = true
		outcome.Status = res.Next
		return nil
	})

	if err != nil {
		if isNotFound(err) {
			// Unknown purchase codes are acknowledged, not errored: the provider
			// retries on 5xx and a retry storm cannot fix a reference we will
			// never recognize.
			logger.Warn(ctx, "Webhook references unknown purchase",
				zap.String("event", event.Event), zap.String("code", code))
			metrics.WebhookEvents.WithLabelValues(event.Event, WebhookOutcomeUnknownReference).Inc()
			return &WebhookOutcome{Outcome: WebhookOutcomeUnknownReference}, nil
		}
		logger.Error(ctx, "Failed to process payment webhook",
			zap.String("event", event.Event), zap.String("code", code), zap.Error(err))
		return nil, err
	}

	metrics.WebhookEvents.WithLabelValues(event.Event, outcome.Outcome).Inc()
	return outcome, nil
}

func (u *WebhookUsecase) dispatchJob(ctx context.Context, purchase *entities.Purchase) error {
	email := ""
	if user, err := u.userRepo.GetByID(ctx, purchase.UserID); err == nil {
		email = user.Email
	}

	err := u.jobQueue.Dispatch(ctx, repositories.ReportJob{
		PurchaseID:   purchase.ID,
		PurchaseCode: purchase.Code,
		Term:         purchase.Term,
		DocumentType: utils.DocumentTypeForTerm(purchase.Term),
		Email:        email,
	})
	if err != nil {
		return err
	}
	metrics.JobsDispatched.Inc()
	return nil
}

package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
	"doc-check.backend/pkg/logger"
	"doc-check.backend/pkg/metrics"
	"doc-check.backend/pkg/utils"
)

// ErrDispatchAfterPaid marks the partial-success path of admin mark-paid: the
// purchase is PAID but the worker queue rejected the job. The caller may
// redispatch; it must not re-transition.
var ErrDispatchAfterPaid = errors.New("purchase marked paid but job dispatch failed")

// AdminUsecase re-enters the purchase state machine under elevated privilege
type AdminUsecase struct {
	purchaseRepo repositories.PurchaseRepository
	userRepo     repositories.UserRepository
	jobQueue     repositories.JobQueue
	gateway      repositories.PaymentGateway
	uow          repositories.UnitOfWork
	refundWait   time.Duration
}

// NewAdminUsecase creates a new admin usecase
func NewAdminUsecase(
	purchaseRepo repositories.PurchaseRepository,
	userRepo repositories.UserRepository,
	jobQueue repositories.JobQueue,
	gateway repositories.PaymentGateway,
	uow repositories.UnitOfWork,
	refundTimeout time.Duration,
) *AdminUsecase {
	if refundTimeout <= 0 {
		refundTimeout = 15 * time.Second
	}
	return &AdminUsecase{
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		jobQueue:     jobQueue,
		gateway:      gateway,
		uow:          uow,
		refundWait:   refundTimeout,
	}
}

// MarkPaid forces a PENDING purchase to PAID, exactly like a confirmed payment
// webhook. The transition commits before the job is dispatched so a queue
// outage leaves a detectable "paid, not started" state instead of rolling back
// the payment record the admin just asserted.
func (u *AdminUsecase) MarkPaid(ctx context.Context, purchaseID uuid.UUID) (*entities.Purchase, error) {
	var purchase *entities.Purchase
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		p, err := u.purchaseRepo.GetByID(lockCtx, purchaseID)
		if err != nil {
			return err
		}

		res := entities.ApplyTransition(p.Status, entities.TriggerAdminMarkPaid)
		if !res.Applied {
			return domainerrors.StateConflict("purchase is not pending")
		}

		p.Status = res.Next
		p.PaidAt.SetValid(time.Now())
		if err := u.purchaseRepo.Update(lockCtx, p); err != nil {
			return err
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.dispatch(ctx, purchase); err != nil {
		logger.Error(ctx, "Job dispatch failed after admin mark-paid",
			zap.String("purchase_code", purchase.Code), zap.Error(err))
		return purchase, domainerrors.Downstream(ErrDispatchAfterPaid.Error(), ErrDispatchAfterPaid)
	}
	return purchase, nil
}

// Redispatch re-sends the processing job for a purchase whose dispatch failed.
// Only legal while the purchase is PAID and the worker has not picked it up.
func (u *AdminUsecase) Redispatch(ctx context.Context, purchaseID uuid.UUID) (*entities.Purchase, error) {
	purchase, err := u.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.Status != entities.PurchaseStatusPaid || purchase.ProcessingStep > 0 {
		return nil, domainerrors.StateConflict("purchase processing already started")
	}
	if err := u.dispatch(ctx, purchase); err != nil {
		return nil, domainerrors.Downstream("failed to dispatch processing job", err)
	}
	return purchase, nil
}

// Refund asks the gateway to return the money and records the reported
// outcome. A gateway rejection or timeout resolves to REFUND_FAILED rather
// than leaving the purchase in its prior state.
func (u *AdminUsecase) Refund(ctx context.Context, purchaseID uuid.UUID) (*entities.Purchase, error) {
	purchase, err := u.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if probe := entities.ApplyTransition(purchase.Status, entities.TriggerRefundAccepted); !probe.Applied {
		return nil, domainerrors.StateConflict("purchase cannot be refunded from its current state")
	}
	if !purchase.CanRefund() {
		return nil, domainerrors.BadRequest("purchase has no gateway payment id")
	}

	trigger := entities.TriggerRefundRejected
	gwCtx, cancel := context.WithTimeout(ctx, u.refundWait)
	defer cancel()
	result, gwErr := u.gateway.Refund(gwCtx, purchase.AsaasPaymentID.String)
	if gwErr != nil {
		logger.Warn(ctx, "Gateway refund call failed",
			zap.String("purchase_code", purchase.Code), zap.Error(gwErr))
	} else if result.Success {
		trigger = entities.TriggerRefundAccepted
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		lockCtx := u.uow.WithLock(txCtx)

		p, err := u.purchaseRepo.GetByID(lockCtx, purchaseID)
		if err != nil {
			return err
		}
		res := entities.ApplyTransition(p.Status, trigger)
		if !res.Applied {
			return domainerrors.StateConflict("purchase changed state during refund")
		}
		p.Status = res.Next
		if err := u.purchaseRepo.Update(lockCtx, p); err != nil {
			return err
		}
		purchase = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.Refunds.WithLabelValues(string(purchase.Status)).Inc()
	return purchase, nil
}

func (u *AdminUsecase) dispatch(ctx context.Context, purchase *entities.Purchase) error {
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

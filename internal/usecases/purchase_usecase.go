package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/domain/repositories"
	"doc-check.backend/pkg/utils"
)

// PurchaseUsecase serves read paths for purchases
type PurchaseUsecase struct {
	purchaseRepo repositories.PurchaseRepository
}

// NewPurchaseUsecase creates a new purchase usecase
func NewPurchaseUsecase(purchaseRepo repositories.PurchaseRepository) *PurchaseUsecase {
	return &PurchaseUsecase{purchaseRepo: purchaseRepo}
}

// PurchaseProgress is the step-tracker projection for one purchase.
type PurchaseProgress struct {
	Code           string                  `json:"code"`
	Status         entities.PurchaseStatus `json:"status"`
	ProcessingStep int                     `json:"processingStep"`
	Steps          []entities.StepView     `json:"steps"`
}

// GetByCode returns one purchase, visible to its owner and to admins.
func (u *PurchaseUsecase) GetByCode(ctx context.Context, code string, requesterID uuid.UUID, isAdmin bool) (*entities.Purchase, error) {
	purchase, err := u.purchaseRepo.GetByCode(ctx, utils.NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	if !isAdmin && purchase.UserID != requesterID {
		return nil, domainerrors.Forbidden("purchase belongs to another user")
	}
	return purchase, nil
}

// Progress projects the purchase onto the fixed processing checklist.
func (u *PurchaseUsecase) Progress(ctx context.Context, code string, requesterID uuid.UUID, isAdmin bool) (*PurchaseProgress, error) {
	purchase, err := u.GetByCode(ctx, code, requesterID, isAdmin)
	if err != nil {
		return nil, err
	}
	return &PurchaseProgress{
		Code:           purchase.Code,
		Status:         purchase.Status,
		ProcessingStep: purchase.ProcessingStep,
		Steps:          entities.ProcessingSteps(purchase.ProcessingStep, purchase.Status),
	}, nil
}

// List returns the requester's purchases, newest first.
func (u *PurchaseUsecase) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]*entities.Purchase, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(page, limit)
	purchases, total, err := u.purchaseRepo.GetByUserID(ctx, userID, params.Limit, params.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	return purchases, utils.CalculateMeta(int64(total), params.Page, params.Limit), nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}

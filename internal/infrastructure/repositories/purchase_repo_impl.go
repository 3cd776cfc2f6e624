package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
	"doc-check.backend/internal/infrastructure/models"
)

// PurchaseRepository implements purchase data operations
type PurchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create creates a new purchase
func (r *PurchaseRepository) Create(ctx context.Context, purchase *entities.Purchase) error {
	m := r.toModel(purchase)
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	purchase.ID = m.ID
	purchase.CreatedAt = m.CreatedAt
	return nil
}

// GetByID gets a purchase by ID
func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	var m models.Purchase
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByCode gets a purchase by its human-facing code
func (r *PurchaseRepository) GetByCode(ctx context.Context, code string) (*entities.Purchase, error) {
	var m models.Purchase
	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// GetByUserID gets purchases for a user with pagination, newest first
func (r *PurchaseRepository) GetByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Purchase, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.Purchase
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	purchases := make([]*entities.Purchase, 0, len(ms))
	for i := range ms {
		purchases = append(purchases, r.toEntity(&ms[i]))
	}
	return purchases, int(total), nil
}

// Update persists the mutable purchase fields
func (r *PurchaseRepository) Update(ctx context.Context, purchase *entities.Purchase) error {
	db := GetDB(ctx, r.db)
	updates := map[string]interface{}{
		"status":          string(purchase.Status),
		"processing_step": purchase.ProcessingStep,
		"updated_at":      time.Now(),
	}
	if purchase.AsaasPaymentID.Valid {
		updates["asaas_payment_id"] = purchase.AsaasPaymentID.String
	}
	if purchase.PaidAt.Valid {
		updates["paid_at"] = purchase.PaidAt.Time
	}

	result := db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ?", purchase.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateStatusIf applies the status change only while the current status is in
// the allowed set, in a single guarded statement.
func (r *PurchaseRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, allowedFrom []entities.PurchaseStatus, next entities.PurchaseStatus) error {
	from := make([]string, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}

	db := GetDB(ctx, r.db)
	result := db.WithContext(ctx).Model(&models.Purchase{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":     string(next),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the purchase is unknown or another trigger got there first.
		var count int64
		if err := db.WithContext(ctx).Model(&models.Purchase{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domainerrors.ErrNotFound
		}
		return domainerrors.ErrStateConflict
	}
	return nil
}

// ExpireStalePending fails every purchase still PENDING and created before the
// cutoff, in one guarded statement. Returns the number of purchases expired.
func (r *PurchaseRepository) ExpireStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Purchase{}).
		Where("status = ? AND created_at < ?", string(entities.PurchaseStatusPending), cutoff).
		Updates(map[string]interface{}{
			"status":     string(entities.PurchaseStatusFailed),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *PurchaseRepository) toModel(p *entities.Purchase) *models.Purchase {
	m := &models.Purchase{
		ID:             p.ID,
		Code:           p.Code,
		UserID:         p.UserID,
		Term:           p.Term,
		Status:         string(p.Status),
		ProcessingStep: p.ProcessingStep,
		Amount:         p.Amount,
		BuyerName:      p.BuyerName,
		SearchResultID: p.SearchResultID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.AsaasPaymentID.Valid {
		v := p.AsaasPaymentID.String
		m.AsaasPaymentID = &v
	}
	if p.PaidAt.Valid {
		t := p.PaidAt.Time
		m.PaidAt = &t
	}
	return m
}

func (r *PurchaseRepository) toEntity(m *models.Purchase) *entities.Purchase {
	return &entities.Purchase{
		ID:             m.ID,
		Code:           m.Code,
		UserID:         m.UserID,
		Term:           m.Term,
		Status:         entities.PurchaseStatus(m.Status),
		ProcessingStep: m.ProcessingStep,
		Amount:         m.Amount,
		BuyerName:      m.BuyerName,
		AsaasPaymentID: null.StringFromPtr(m.AsaasPaymentID),
		PaidAt:         null.TimeFromPtr(m.PaidAt),
		SearchResultID: m.SearchResultID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

package usecases

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"doc-check.backend/internal/domain/entities"
	domainerrors "doc-check.backend/internal/domain/errors"
)

func TestGetByCode_OwnerSeesOwnPurchase(t *testing.T) {
	p := pendingPurchase("AB12CD34")
	uc := NewPurchaseUsecase(newMockPurchaseRepo(p))

	got, err := uc.GetByCode(context.Background(), "ab12cd34", p.UserID, false)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

func TestGetByCode_OtherUserForbidden(t *testing.T) {
	p := pendingPurchase("AB12CD34")
	uc := NewPurchaseUsecase(newMockPurchaseRepo(p))

	_, err := uc.GetByCode(context.Background(), "AB12CD34", uuid.New(), false)
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestGetByCode_AdminSeesAny(t *testing.T) {
	p := pendingPurchase("AB12CD34")
	uc := NewPurchaseUsecase(newMockPurchaseRepo(p))

	got, err := uc.GetByCode(context.Background(), "AB12CD34", uuid.New(), true)
	require.NoError(t, err)
	require.Equal(t, p.ID, got.ID)
}

func TestGetByCode_UnknownNotFound(t *testing.T) {
	uc := NewPurchaseUsecase(newMockPurchaseRepo())

	_, err := uc.GetByCode(context.Background(), "NOPE1234", uuid.New(), true)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestProgress_ProjectsChecklist(t *testing.T) {
	p := pendingPurchase("AB12CD34")
	p.Status = entities.PurchaseStatusProcessing
	p.ProcessingStep = 3
	uc := NewPurchaseUsecase(newMockPurchaseRepo(p))

	prog, err := uc.Progress(context.Background(), "AB12CD34", p.UserID, false)
	require.NoError(t, err)
	require.Equal(t, "AB12CD34", prog.Code)
	require.Equal(t, entities.PurchaseStatusProcessing, prog.Status)
	require.Equal(t, 3, prog.ProcessingStep)
	require.Len(t, prog.Steps, 6)
	require.Equal(t, entities.StepStateCompleted, prog.Steps[2].State)
	require.Equal(t, entities.StepStateInProgress, prog.Steps[3].State)
	require.Equal(t, entities.StepStatePending, prog.Steps[4].State)
}

func TestList_Paginates(t *testing.T) {
	userID := uuid.New()
	var purchases []*entities.Purchase
	for i := 0; i < 5; i++ {
		p := pendingPurchase(uuid.NewString()[:8])
		p.UserID = userID
		purchases = append(purchases, p)
	}
	uc := NewPurchaseUsecase(newMockPurchaseRepo(purchases...))

	got, meta, err := uc.List(context.Background(), userID, 1, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, int64(5), meta.TotalCount)
	require.Equal(t, 2, meta.TotalPages)

	got, _, err = uc.List(context.Background(), userID, 2, 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
}

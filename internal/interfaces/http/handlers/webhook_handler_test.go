package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"doc-check.backend/internal/domain/entities"
	"doc-check.backend/internal/usecases"
)

func newWebhookRouter(repo *fakePurchaseRepo, queue *fakeJobQueue) *gin.Engine {
	uc := usecases.NewWebhookUsecase(repo, newFakeUserRepo(), queue, fakeUoW{})
	h := NewWebhookHandler(uc)
	r := gin.New()
	r.POST("/webhooks/asaas", h.HandleAsaasWebhook)
	return r
}

func TestHandleAsaasWebhook_AppliesConfirmation(t *testing.T) {
	p := &entities.Purchase{
		ID:     uuid.New(),
		Code:   "AB12CD34",
		UserID: uuid.New(),
		Term:   "12345678901",
		Status: entities.PurchaseStatusPending,
	}
	queue := &fakeJobQueue{}
	r := newWebhookRouter(newFakePurchaseRepo(p), queue)

	w := doJSON(t, r, http.MethodPost, "/webhooks/asaas", gin.H{
		"event": "PAYMENT_CONFIRMED",
		"payment": gin.H{
			"id":                "pay_123",
			"externalReference": "AB12CD34",
		},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["applied"])
	require.Equal(t, "applied", body["outcome"])
	require.Len(t, queue.jobs, 1)
}

func TestHandleAsaasWebhook_MalformedPayload(t *testing.T) {
	r := newWebhookRouter(newFakePurchaseRepo(), &fakeJobQueue{})

	w := doJSON(t, r, http.MethodPost, "/webhooks/asaas", gin.H{"payment": gin.H{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleAsaasWebhook_UnknownReferenceStill200(t *testing.T) {
	r := newWebhookRouter(newFakePurchaseRepo(), &fakeJobQueue{})

	w := doJSON(t, r, http.MethodPost, "/webhooks/asaas", gin.H{
		"event":   "PAYMENT_CONFIRMED",
		"payment": gin.H{"id": "pay_x", "externalReference": "NOPE1234"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["applied"])
	require.Equal(t, "unknown_reference", body["outcome"])
}

func TestHandleAsaasWebhook_ReplayAnswers200NoOp(t *testing.T) {
	p := &entities.Purchase{
		ID:     uuid.New(),
		Code:   "AB12CD34",
		UserID: uuid.New(),
		Term:   "12345678901",
		Status: entities.PurchaseStatusPaid,
	}
	r := newWebhookRouter(newFakePurchaseRepo(p), &fakeJobQueue{})

	w := doJSON(t, r, http.MethodPost, "/webhooks/asaas", gin.H{
		"event":   "PAYMENT_CONFIRMED",
		"payment": gin.H{"id": "pay_123", "externalReference": "AB12CD34"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, false, body["applied"])
	require.Equal(t, "no_op", body["outcome"])
}

func TestHandleAsaasWebhook_QueueDownAnswers502(t *testing.T) {
	p := &entities.Purchase{
		ID:     uuid.New(),
		Code:   "AB12CD34",
		UserID: uuid.New(),
		Term:   "12345678901",
		Status: entities.PurchaseStatusPending,
	}
	queue := &fakeJobQueue{dispatchErr: errFake}
	r := newWebhookRouter(newFakePurchaseRepo(p), queue)

	w := doJSON(t, r, http.MethodPost, "/webhooks/asaas", gin.H{
		"event":   "PAYMENT_CONFIRMED",
		"payment": gin.H{"id": "pay_123", "externalReference": "AB12CD34"},
	})

	// 5xx makes the provider retry after the rollback.
	require.Equal(t, http.StatusBadGateway, w.Code)
}

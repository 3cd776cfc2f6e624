package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"doc-check.backend/internal/interfaces/http/middleware"
	"doc-check.backend/internal/interfaces/http/response"
	"doc-check.backend/internal/usecases"
)

// PurchaseHandler handles purchase read endpoints
type PurchaseHandler struct {
	purchaseUsecase *usecases.PurchaseUsecase
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseUsecase *usecases.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{purchaseUsecase: purchaseUsecase}
}

// GetPurchase returns one purchase by code
// GET /api/v1/purchases/:code
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	purchase, err := h.purchaseUsecase.GetByCode(c.Request.Context(), c.Param("code"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// GetProgress returns the processing checklist projection
// GET /api/v1/purchases/:code/progress
func (h *PurchaseHandler) GetProgress(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	progress, err := h.purchaseUsecase.Progress(c.Request.Context(), c.Param("code"), userID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// ListPurchases returns the caller's purchases, newest first
// GET /api/v1/purchases
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	purchases, meta, err := h.purchaseUsecase.List(c.Request.Context(), userID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"purchases":  purchases,
		"pagination": meta,
	})
}

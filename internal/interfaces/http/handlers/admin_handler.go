package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"doc-check.backend/internal/interfaces/http/response"
	"doc-check.backend/internal/usecases"
)

// AdminHandler handles privileged purchase overrides
type AdminHandler struct {
	adminUsecase *usecases.AdminUsecase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUsecase *usecases.AdminUsecase) *AdminHandler {
	return &AdminHandler{adminUsecase: adminUsecase}
}

// MarkPaid forces a pending purchase to PAID and dispatches its job
// POST /api/v1/admin/purchases/:id/mark-paid
func (h *AdminHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	purchase, err := h.adminUsecase.MarkPaid(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecases.ErrDispatchAfterPaid) {
			// The transition stuck; only the worker handoff failed. The caller
			// should redispatch, not mark paid again.
			c.JSON(http.StatusBadGateway, gin.H{
				"error":      "purchase marked paid, but processing could not be started",
				"purchase":   purchase,
				"dispatched": false,
			})
			return
		}
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"purchase":   purchase,
		"dispatched": true,
	})
}

// Redispatch re-sends the processing job for a PAID purchase
// POST /api/v1/admin/purchases/:id/redispatch
func (h *AdminHandler) Redispatch(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	purchase, err := h.adminUsecase.Redispatch(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"purchase":   purchase,
		"dispatched": true,
	})
}

// Refund asks the gateway to refund and records the outcome
// POST /api/v1/admin/purchases/:id/refund
func (h *AdminHandler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase id"})
		return
	}

	purchase, err := h.adminUsecase.Refund(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"purchase": purchase,
		"status":   purchase.Status,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/services"
)

// MonthEndHandler drives the three-step month-close wizard.
type MonthEndHandler struct {
	monthEndService services.MonthEndServicer
	auditService    services.AuditServicer
}

// NewMonthEndHandler creates a new MonthEndHandler.
func NewMonthEndHandler(monthEndService services.MonthEndServicer, auditService services.AuditServicer) *MonthEndHandler {
	return &MonthEndHandler{monthEndService: monthEndService, auditService: auditService}
}

// SweepRequest represents the surplus decision payload. A nil goal_id means
// the surplus rolls into next month's starting balance.
type SweepRequest struct {
	Amount int64 `json:"amount" binding:"gte=0"`
	GoalID *uint `json:"goal_id"`
}

// FinalizeRequest represents the month-close payload.
type FinalizeRequest struct {
	Month string `json:"month" binding:"required,budget_month"`
}

// Summary returns the current month's close-out projection.
func (h *MonthEndHandler) Summary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.monthEndService.Summary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Sweep applies the wizard's surplus decision.
func (h *MonthEndHandler) Sweep(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	message, err := h.monthEndService.Sweep(userID, req.Amount, req.GoalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MONTH_END_SWEEP", "budget", 0, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "goal_id": req.GoalID})

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Finalize closes a month and opens the next one.
func (h *MonthEndHandler) Finalize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.monthEndService.Finalize(userID, req.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "MONTH_END_FINALIZE", "budget", result.NewBudget.ID, c.ClientIP(),
		map[string]interface{}{"closed_month": req.Month, "opened_month": result.NewBudget.Month})

	c.JSON(http.StatusCreated, result)
}

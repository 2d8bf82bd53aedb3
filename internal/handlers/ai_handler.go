package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/services"
)

// AIHandler exposes the advisory prediction endpoints.
type AIHandler struct {
	oracleService services.OracleServicer
	budgetService services.BudgetServicer
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(oracleService services.OracleServicer, budgetService services.BudgetServicer) *AIHandler {
	return &AIHandler{oracleService: oracleService, budgetService: budgetService}
}

// CategorizeRequest represents the categorization payload.
type CategorizeRequest struct {
	Description string `json:"description" binding:"required,min=1,max=255"`
}

// InsightsRequest represents the insights payload.
type InsightsRequest struct {
	SpendingSummary string `json:"spending_summary" binding:"max=2000"`
}

// PredictStatusRequest represents the trajectory projection payload.
type PredictStatusRequest struct {
	MonthProgressPct float64 `json:"month_progress_pct" binding:"gte=0,lte=100"`
	VariancePct      float64 `json:"variance_pct"`
}

// Categorize suggests a category for a transaction description, scored
// against the current month's envelopes.
func (h *AIHandler) Categorize(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	current, err := h.budgetService.CurrentBudget(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	candidates := make(map[uint]string, len(current.Categories))
	for _, cat := range current.Categories {
		candidates[cat.ID] = cat.Name
	}

	prediction, err := h.oracleService.Categorize(userID, req.Description, candidates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// Insights returns rule-based observations on the current month.
func (h *AIHandler) Insights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	insights, err := h.oracleService.Insights(userID, req.SpendingSummary)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

// PredictStatus projects whether the month will land on plan.
func (h *AIHandler) PredictStatus(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	var req PredictStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	prediction, err := h.oracleService.PredictBudgetStatus(req.MonthProgressPct, req.VariancePct)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

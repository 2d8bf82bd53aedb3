package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// BudgetHandler handles budget and category requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// CategorySpecRequest represents one category in a manual setup.
type CategorySpecRequest struct {
	Name    string              `json:"name" binding:"required,min=1,max=50"`
	Type    models.CategoryType `json:"type" binding:"required,category_type"`
	Planned int64               `json:"planned" binding:"gte=0"`
	Icon    string              `json:"icon" binding:"max=50"`
	Color   string              `json:"color" binding:"omitempty,hex_color"`
}

// SetupRequest represents the one-time budget setup payload.
type SetupRequest struct {
	Income          int64                   `json:"income" binding:"required,gt=0"`
	StartingBalance int64                   `json:"starting_balance" binding:"gte=0"`
	Method          models.AllocationMethod `json:"method" binding:"required,allocation_method"`
	Categories      []CategorySpecRequest   `json:"categories" binding:"omitempty,dive"`
}

// UpdateBudgetRequest represents the budget update payload.
type UpdateBudgetRequest struct {
	Income          *int64 `json:"income" binding:"omitempty,gt=0"`
	StartingBalance *int64 `json:"starting_balance" binding:"omitempty,gte=0"`
}

// CreateCategoryRequest represents the category creation payload.
type CreateCategoryRequest struct {
	Name    string              `json:"name" binding:"required,min=1,max=50"`
	Type    models.CategoryType `json:"type" binding:"required,category_type"`
	Planned int64               `json:"planned" binding:"gte=0"`
	Icon    string              `json:"icon" binding:"max=50"`
	Color   string              `json:"color" binding:"omitempty,hex_color"`
}

// UpdateCategoryRequest represents the category update payload.
type UpdateCategoryRequest struct {
	Name    *string              `json:"name" binding:"omitempty,min=1,max=50"`
	Type    *models.CategoryType `json:"type" binding:"omitempty,category_type"`
	Planned *int64               `json:"planned" binding:"omitempty,gte=0"`
	Icon    *string              `json:"icon" binding:"omitempty,max=50"`
	Color   *string              `json:"color" binding:"omitempty,hex_color"`
}

// Setup handles the one-time first budget creation.
func (h *BudgetHandler) Setup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var initial []services.CategorySpec
	for _, spec := range req.Categories {
		initial = append(initial, services.CategorySpec{
			Name:    spec.Name,
			Type:    spec.Type,
			Planned: spec.Planned,
			Icon:    spec.Icon,
			Color:   spec.Color,
		})
	}

	result, err := h.budgetService.Setup(userID, req.Income, req.StartingBalance, req.Method, initial)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SETUP_BUDGET", "budget", result.Budget.ID, c.ClientIP(),
		map[string]interface{}{"income": req.Income, "method": req.Method})

	c.JSON(http.StatusCreated, result)
}

// GetCurrentBudget returns the present month's budget and categories.
func (h *BudgetHandler) GetCurrentBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.budgetService.CurrentBudget(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBudgetByMonth returns the budget and categories for a given month.
func (h *BudgetHandler) GetBudgetByMonth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month := c.Param("month")
	if _, parseErr := models.ParseMonthKey(month); parseErr != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format"))
		return
	}

	result, err := h.budgetService.GetBudget(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateBudget handles income and starting balance changes for the current
// month.
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(userID, req.Income, req.StartingBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BUDGET", "budget", budget.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// CreateCategory adds an envelope to the current month.
func (h *BudgetHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.budgetService.CreateCategory(userID, services.CategorySpec{
		Name:    req.Name,
		Type:    req.Type,
		Planned: req.Planned,
		Icon:    req.Icon,
		Color:   req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_CATEGORY", "category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "planned": req.Planned})

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory applies a partial category update.
func (h *BudgetHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.budgetService.UpdateCategory(userID, categoryID, services.CategoryUpdate{
		Name:    req.Name,
		Type:    req.Type,
		Planned: req.Planned,
		Icon:    req.Icon,
		Color:   req.Color,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes an envelope with no recorded spend.
func (h *BudgetHandler) DeleteCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteCategory(userID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_CATEGORY", "category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

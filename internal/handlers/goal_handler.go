package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// GoalHandler handles savings goal requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the goal creation payload.
type CreateGoalRequest struct {
	Name                string     `json:"name" binding:"required,min=1,max=100"`
	TargetAmount        int64      `json:"target_amount" binding:"required,gt=0"`
	MonthlyContribution int64      `json:"monthly_contribution" binding:"gte=0"`
	TargetDate          *time.Time `json:"target_date"`
}

// UpdateGoalRequest represents the goal update payload.
type UpdateGoalRequest struct {
	Name                *string    `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount        *int64     `json:"target_amount" binding:"omitempty,gt=0"`
	SavedAmount         *int64     `json:"saved_amount" binding:"omitempty,gte=0"`
	MonthlyContribution *int64     `json:"monthly_contribution" binding:"omitempty,gte=0"`
	TargetDate          *time.Time `json:"target_date"`
}

// ContributeRequest represents the contribution payload.
type ContributeRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// CreateGoal creates a savings goal.
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(userID, req.Name, req.TargetAmount, req.MonthlyContribution, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "target_amount": req.TargetAmount})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals lists the user's goals with progress.
func (h *GoalHandler) GetGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goals, err := h.goalService.GetUserGoals(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	payload := make([]gin.H, 0, len(goals))
	for i := range goals {
		payload = append(payload, goalPayload(&goals[i]))
	}

	c.JSON(http.StatusOK, gin.H{"goals": payload})
}

// GetGoal returns one goal with progress.
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goalPayload(goal)})
}

// UpdateGoal applies a partial update.
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, services.GoalUpdate{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		SavedAmount:         req.SavedAmount,
		MonthlyContribution: req.MonthlyContribution,
		TargetDate:          req.TargetDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"goal": goalPayload(goal)})
}

// DeleteGoal removes a goal.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted"})
}

// Contribute moves free-to-spend into a goal's saved balance.
func (h *GoalHandler) Contribute(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, budget, err := h.goalService.Contribute(userID, goalID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CONTRIBUTE_GOAL", "goal", goalID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{
		"goal":   goalPayload(goal),
		"budget": budget,
	})
}

func goalPayload(goal *models.Goal) gin.H {
	return gin.H{
		"id":                   goal.ID,
		"name":                 goal.Name,
		"target_amount":        goal.TargetAmount,
		"saved_amount":         goal.SavedAmount,
		"monthly_contribution": goal.MonthlyContribution,
		"target_date":          goal.TargetDate,
		"progress_percent":     goal.ProgressPercent(),
		"created_at":           goal.CreatedAt,
		"updated_at":           goal.UpdatedAt,
	}
}

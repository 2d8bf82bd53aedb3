package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn   func(userID uint, name string, targetAmount, monthlyContribution int64, targetDate *time.Time) (*models.Goal, error)
	getUserGoalsFn func(userID uint) ([]models.Goal, error)
	getGoalByIDFn  func(userID, goalID uint) (*models.Goal, error)
	updateGoalFn   func(userID, goalID uint, update services.GoalUpdate) (*models.Goal, error)
	deleteGoalFn   func(userID, goalID uint) error
	contributeFn   func(userID, goalID uint, amount int64) (*models.Goal, *models.Budget, error)
}

func (m *mockGoalService) CreateGoal(userID uint, name string, targetAmount, monthlyContribution int64, targetDate *time.Time) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, targetAmount, monthlyContribution, targetDate)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID)
	}
	return nil, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID uint, update services.GoalUpdate) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, update)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) Contribute(userID, goalID uint, amount int64) (*models.Goal, *models.Budget, error) {
	if m.contributeFn != nil {
		return m.contributeFn(userID, goalID, amount)
	}
	return &models.Goal{}, &models.Budget{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/:id", handler.GetGoal)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	auth.POST("/goals/:id/contribute", handler.Contribute)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 with progress", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_ uint, name string, targetAmount, _ int64, _ *time.Time) (*models.Goal, error) {
				return &models.Goal{
					Base:         models.Base{ID: 1},
					Name:         name,
					TargetAmount: targetAmount,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Vacation","target_amount":500000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["progress_percent"].(float64) != 0 {
			t.Errorf("expected 0 progress, got %v", goal["progress_percent"])
		}
	})

	t.Run("returns 400 on zero target", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals", `{"name":"Vacation","target_amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_Contribute(t *testing.T) {
	t.Run("returns 200 with goal and budget", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, goalID uint, amount int64) (*models.Goal, *models.Budget, error) {
				return &models.Goal{Base: models.Base{ID: goalID}, SavedAmount: amount, TargetAmount: 100000},
					&models.Budget{FreeToSpend: 90000 - amount}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":10000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["saved_amount"].(float64) != 10000 {
			t.Errorf("expected saved 10000, got %v", goal["saved_amount"])
		}
		budget := result["budget"].(map[string]interface{})
		if budget["free_to_spend"].(float64) != 80000 {
			t.Errorf("expected free_to_spend 80000, got %v", budget["free_to_spend"])
		}
	})

	t.Run("returns 400 when strict mode blocks it", func(t *testing.T) {
		svc := &mockGoalService{
			contributeFn: func(_, _ uint, _ int64) (*models.Goal, *models.Budget, error) {
				return nil, nil, apperrors.ErrInsufficientFreeToSpend
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":999999}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_FREE_TO_SPEND")
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals/1/contribute", `{"amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

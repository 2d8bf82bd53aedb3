package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	setupFn          func(userID uint, income, startingBalance int64, method models.AllocationMethod, initial []services.CategorySpec) (*services.MonthBudget, error)
	updateBudgetFn   func(userID uint, income, startingBalance *int64) (*models.Budget, error)
	getBudgetFn      func(userID uint, month string) (*services.MonthBudget, error)
	currentBudgetFn  func(userID uint) (*services.MonthBudget, error)
	createCategoryFn func(userID uint, spec services.CategorySpec) (*models.Category, error)
	updateCategoryFn func(userID, categoryID uint, update services.CategoryUpdate) (*models.Category, error)
	deleteCategoryFn func(userID, categoryID uint) error
}

func (m *mockBudgetService) Setup(userID uint, income, startingBalance int64, method models.AllocationMethod, initial []services.CategorySpec) (*services.MonthBudget, error) {
	if m.setupFn != nil {
		return m.setupFn(userID, income, startingBalance, method, initial)
	}
	return &services.MonthBudget{}, nil
}

func (m *mockBudgetService) UpdateBudget(userID uint, income, startingBalance *int64) (*models.Budget, error) {
	if m.updateBudgetFn != nil {
		return m.updateBudgetFn(userID, income, startingBalance)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudget(userID uint, month string) (*services.MonthBudget, error) {
	if m.getBudgetFn != nil {
		return m.getBudgetFn(userID, month)
	}
	return &services.MonthBudget{}, nil
}

func (m *mockBudgetService) CurrentBudget(userID uint) (*services.MonthBudget, error) {
	if m.currentBudgetFn != nil {
		return m.currentBudgetFn(userID)
	}
	return &services.MonthBudget{}, nil
}

func (m *mockBudgetService) CreateCategory(userID uint, spec services.CategorySpec) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(userID, spec)
	}
	return &models.Category{}, nil
}

func (m *mockBudgetService) UpdateCategory(userID, categoryID uint, update services.CategoryUpdate) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(userID, categoryID, update)
	}
	return &models.Category{}, nil
}

func (m *mockBudgetService) DeleteCategory(userID, categoryID uint) error {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(userID, categoryID)
	}
	return nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/budget/setup", handler.Setup)
	auth.GET("/budget/current", handler.GetCurrentBudget)
	auth.GET("/budget/:month", handler.GetBudgetByMonth)
	auth.PATCH("/budget", handler.UpdateBudget)
	auth.POST("/categories", handler.CreateCategory)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	return r
}

func TestBudgetHandler_Setup(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			setupFn: func(userID uint, income, startingBalance int64, method models.AllocationMethod, _ []services.CategorySpec) (*services.MonthBudget, error) {
				return &services.MonthBudget{
					Budget: models.Budget{
						Base:   models.Base{ID: 1},
						UserID: userID,
						Month:  "2026-08",
						Income: income,
					},
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budget/setup",
			`{"income":100000,"starting_balance":5000,"method":"50/30/20"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		budget := result["budget"].(map[string]interface{})
		if budget["income"].(float64) != 100000 {
			t.Errorf("expected income 100000, got %v", budget["income"])
		}
	})

	t.Run("returns 400 on bad method", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budget/setup",
			`{"income":100000,"method":"YOLO"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 409 when already set up", func(t *testing.T) {
		svc := &mockBudgetService{
			setupFn: func(_ uint, _, _ int64, _ models.AllocationMethod, _ []services.CategorySpec) (*services.MonthBudget, error) {
				return nil, apperrors.ErrSetupAlreadyComplete
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/budget/setup",
			`{"income":100000,"method":"50/30/20"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SETUP_ALREADY_COMPLETE")
	})
}

func TestBudgetHandler_GetBudgetByMonth(t *testing.T) {
	t.Run("returns 200 for valid month", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetFn: func(_ uint, month string) (*services.MonthBudget, error) {
				return &services.MonthBudget{Budget: models.Budget{Month: month}}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget/2026-07", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 400 for malformed month", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget/july", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 for unknown month", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetFn: func(_ uint, _ string) (*services.MonthBudget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget/2020-01", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_DeleteCategory(t *testing.T) {
	t.Run("returns 400 when category has spending", func(t *testing.T) {
		svc := &mockBudgetService{
			deleteCategoryFn: func(_, _ uint) error {
				return apperrors.ErrCategoryHasSpending
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/3", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_HAS_SPENDING")
	})

	t.Run("returns 200 on success", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/3", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-numeric id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "DELETE", "/categories/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_CreateCategory(t *testing.T) {
	t.Run("returns 400 on invalid type", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Pets","type":"Luxury","planned":5000}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockBudgetService{
			createCategoryFn: func(_ uint, spec services.CategorySpec) (*models.Category, error) {
				return &models.Category{Base: models.Base{ID: 9}, Name: spec.Name, Type: spec.Type}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockAuditService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "POST", "/categories",
			`{"name":"Pets","type":"Want","planned":5000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

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

// --- mock shopping service ---

type mockShoppingService struct {
	createListFn   func(userID uint, name string, categoryID uint, items []models.ShoppingItem) (*models.ShoppingList, error)
	getUserListsFn func(userID uint) ([]models.ShoppingList, error)
	getListByIDFn  func(userID, listID uint) (*models.ShoppingList, error)
	updateListFn   func(userID, listID uint, update services.ShoppingListUpdate) (*models.ShoppingList, error)
	deleteListFn   func(userID, listID uint) error
	checkoutFn     func(userID, listID uint, actualTotal *int64, description string, date *time.Time) (*models.Transaction, error)
}

func (m *mockShoppingService) CreateList(userID uint, name string, categoryID uint, items []models.ShoppingItem) (*models.ShoppingList, error) {
	if m.createListFn != nil {
		return m.createListFn(userID, name, categoryID, items)
	}
	return &models.ShoppingList{}, nil
}

func (m *mockShoppingService) GetUserLists(userID uint) ([]models.ShoppingList, error) {
	if m.getUserListsFn != nil {
		return m.getUserListsFn(userID)
	}
	return nil, nil
}

func (m *mockShoppingService) GetListByID(userID, listID uint) (*models.ShoppingList, error) {
	if m.getListByIDFn != nil {
		return m.getListByIDFn(userID, listID)
	}
	return &models.ShoppingList{}, nil
}

func (m *mockShoppingService) UpdateList(userID, listID uint, update services.ShoppingListUpdate) (*models.ShoppingList, error) {
	if m.updateListFn != nil {
		return m.updateListFn(userID, listID, update)
	}
	return &models.ShoppingList{}, nil
}

func (m *mockShoppingService) DeleteList(userID, listID uint) error {
	if m.deleteListFn != nil {
		return m.deleteListFn(userID, listID)
	}
	return nil
}

func (m *mockShoppingService) Checkout(userID, listID uint, actualTotal *int64, description string, date *time.Time) (*models.Transaction, error) {
	if m.checkoutFn != nil {
		return m.checkoutFn(userID, listID, actualTotal, description, date)
	}
	return &models.Transaction{}, nil
}

var _ services.ShoppingServicer = (*mockShoppingService)(nil)

func setupShoppingRouter(handler *ShoppingHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/shopping-lists", handler.CreateList)
	auth.GET("/shopping-lists", handler.GetLists)
	auth.GET("/shopping-lists/:id", handler.GetList)
	auth.PUT("/shopping-lists/:id", handler.UpdateList)
	auth.DELETE("/shopping-lists/:id", handler.DeleteList)
	auth.POST("/shopping-lists/:id/checkout", handler.Checkout)
	return r
}

func TestShoppingHandler_CreateList(t *testing.T) {
	t.Run("returns 201 with estimated total", func(t *testing.T) {
		svc := &mockShoppingService{
			createListFn: func(_ uint, name string, categoryID uint, items []models.ShoppingItem) (*models.ShoppingList, error) {
				return &models.ShoppingList{
					Base:       models.Base{ID: 1},
					Name:       name,
					CategoryID: categoryID,
					Items:      items,
				}, nil
			},
		}
		handler := NewShoppingHandler(svc, &mockAuditService{})
		r := setupShoppingRouter(handler)

		rec := doRequest(r, "POST", "/shopping-lists",
			`{"name":"Weekly shop","category_id":2,"items":[{"name":"Milk","estimated_price":350,"quantity":2}]}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["estimated_total"].(float64) != 700 {
			t.Errorf("expected estimated total 700, got %v", result["estimated_total"])
		}
	})

	t.Run("returns 400 on missing category", func(t *testing.T) {
		handler := NewShoppingHandler(&mockShoppingService{}, &mockAuditService{})
		r := setupShoppingRouter(handler)

		rec := doRequest(r, "POST", "/shopping-lists", `{"name":"Weekly shop"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestShoppingHandler_Checkout(t *testing.T) {
	t.Run("returns 201 with transaction", func(t *testing.T) {
		svc := &mockShoppingService{
			checkoutFn: func(_, _ uint, actualTotal *int64, _ string, _ *time.Time) (*models.Transaction, error) {
				amount := int64(950)
				if actualTotal != nil {
					amount = *actualTotal
				}
				return &models.Transaction{Base: models.Base{ID: 5}, Amount: amount}, nil
			},
		}
		handler := NewShoppingHandler(svc, &mockAuditService{})
		r := setupShoppingRouter(handler)

		rec := doRequest(r, "POST", "/shopping-lists/1/checkout", `{"actual_total":812}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		txn := result["transaction"].(map[string]interface{})
		if txn["amount"].(float64) != 812 {
			t.Errorf("expected amount 812, got %v", txn["amount"])
		}
	})

	t.Run("returns 400 when month has no budget", func(t *testing.T) {
		svc := &mockShoppingService{
			checkoutFn: func(_, _ uint, _ *int64, _ string, _ *time.Time) (*models.Transaction, error) {
				return nil, apperrors.ErrNoBudgetForMonth
			},
		}
		handler := NewShoppingHandler(svc, &mockAuditService{})
		r := setupShoppingRouter(handler)

		rec := doRequest(r, "POST", "/shopping-lists/1/checkout", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "NO_BUDGET_FOR_MONTH")
	})
}

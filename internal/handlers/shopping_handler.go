package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/services"
)

// ShoppingHandler handles shopping list requests.
type ShoppingHandler struct {
	shoppingService services.ShoppingServicer
	auditService    services.AuditServicer
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(shoppingService services.ShoppingServicer, auditService services.AuditServicer) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService, auditService: auditService}
}

// ShoppingItemRequest represents one planned purchase.
type ShoppingItemRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100"`
	EstimatedPrice int64  `json:"estimated_price" binding:"gte=0"`
	Quantity       int    `json:"quantity" binding:"gte=0"`
}

// CreateListRequest represents the list creation payload.
type CreateListRequest struct {
	Name       string                `json:"name" binding:"required,min=1,max=100"`
	CategoryID uint                  `json:"category_id" binding:"required"`
	Items      []ShoppingItemRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateListRequest represents the list update payload. Items, when present,
// replace the stored set.
type UpdateListRequest struct {
	Name       *string                `json:"name" binding:"omitempty,min=1,max=100"`
	CategoryID *uint                  `json:"category_id"`
	Items      *[]ShoppingItemRequest `json:"items" binding:"omitempty,dive"`
}

// CheckoutRequest represents the checkout payload.
type CheckoutRequest struct {
	ActualTotal *int64     `json:"actual_total" binding:"omitempty,gt=0"`
	Description string     `json:"description" binding:"max=255"`
	Date        *time.Time `json:"date"`
}

func toShoppingItems(reqs []ShoppingItemRequest) []models.ShoppingItem {
	items := make([]models.ShoppingItem, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, models.ShoppingItem{
			Name:           r.Name,
			EstimatedPrice: r.EstimatedPrice,
			Quantity:       r.Quantity,
		})
	}
	return items
}

// CreateList creates a shopping list.
func (h *ShoppingHandler) CreateList(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	list, err := h.shoppingService.CreateList(userID, req.Name, req.CategoryID, toShoppingItems(req.Items))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SHOPPING_LIST", "shopping_list", list.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "items": len(req.Items)})

	c.JSON(http.StatusCreated, gin.H{"list": list, "estimated_total": list.EstimatedTotal()})
}

// GetLists returns the user's shopping lists.
func (h *ShoppingHandler) GetLists(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	lists, err := h.shoppingService.GetUserLists(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lists": lists})
}

// GetList returns one shopping list.
func (h *ShoppingHandler) GetList(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	listID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	list, err := h.shoppingService.GetListByID(userID, listID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"list": list, "estimated_total": list.EstimatedTotal()})
}

// UpdateList applies a partial update.
func (h *ShoppingHandler) UpdateList(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	listID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.ShoppingListUpdate{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}
	if req.Items != nil {
		items := toShoppingItems(*req.Items)
		update.Items = &items
	}

	list, err := h.shoppingService.UpdateList(userID, listID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SHOPPING_LIST", "shopping_list", listID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"list": list, "estimated_total": list.EstimatedTotal()})
}

// DeleteList removes a shopping list.
func (h *ShoppingHandler) DeleteList(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	listID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.shoppingService.DeleteList(userID, listID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SHOPPING_LIST", "shopping_list", listID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Shopping list deleted"})
}

// Checkout converts a list into a transaction and removes it.
func (h *ShoppingHandler) Checkout(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	listID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.shoppingService.Checkout(userID, listID, req.ActualTotal, req.Description, req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CHECKOUT_SHOPPING_LIST", "shopping_list", listID, c.ClientIP(),
		map[string]interface{}{"transaction_id": transaction.ID, "amount": transaction.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

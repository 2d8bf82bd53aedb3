package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// shoppingService handles planned-purchase lists and their conversion into
// ledger transactions at checkout.
type shoppingService struct {
	db           *gorm.DB
	transactions TransactionServicer
}

// NewShoppingService creates a new ShoppingServicer.
func NewShoppingService(db *gorm.DB, transactions TransactionServicer) ShoppingServicer {
	return &shoppingService{db: db, transactions: transactions}
}

func (s *shoppingService) ownedCategory(userID, categoryID uint) error {
	var count int64
	if err := s.db.Model(&models.Category{}).
		Where("id = ? AND user_id = ?", categoryID, userID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// CreateList creates a shopping list bound to one of the user's categories.
func (s *shoppingService) CreateList(userID uint, name string, categoryID uint, items []models.ShoppingItem) (*models.ShoppingList, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "list name is required")
	}
	if err := s.ownedCategory(userID, categoryID); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.ShoppingItem{}
	}

	list := &models.ShoppingList{
		UserID:     userID,
		Name:       name,
		CategoryID: categoryID,
		Items:      items,
	}
	if err := s.db.Create(list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return list, nil
}

// GetUserLists retrieves all of the user's shopping lists.
func (s *shoppingService) GetUserLists(userID uint) ([]models.ShoppingList, error) {
	var lists []models.ShoppingList
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lists, nil
}

// GetListByID retrieves one of the user's shopping lists.
func (s *shoppingService) GetListByID(userID, listID uint) (*models.ShoppingList, error) {
	var list models.ShoppingList
	if err := s.db.Where("id = ? AND user_id = ?", listID, userID).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrShoppingListNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &list, nil
}

// UpdateList applies a partial update. Items, when present, replace the
// stored set wholesale.
func (s *shoppingService) UpdateList(userID, listID uint, update ShoppingListUpdate) (*models.ShoppingList, error) {
	list, err := s.GetListByID(userID, listID)
	if err != nil {
		return nil, err
	}

	if update.CategoryID != nil {
		if err := s.ownedCategory(userID, *update.CategoryID); err != nil {
			return nil, err
		}
		list.CategoryID = *update.CategoryID
	}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "list name is required")
		}
		list.Name = *update.Name
	}
	if update.Items != nil {
		list.Items = *update.Items
	}

	if err := s.db.Save(list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return list, nil
}

// DeleteList removes one of the user's shopping lists.
func (s *shoppingService) DeleteList(userID, listID uint) error {
	list, err := s.GetListByID(userID, listID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(list).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Checkout converts a list into a single transaction against its category,
// then removes the list. The amount defaults to the list's estimated total
// when no actual total is given. The list survives if the transaction is
// rejected, for example when there is no budget for the month.
func (s *shoppingService) Checkout(userID, listID uint, actualTotal *int64, description string, date *time.Time) (*models.Transaction, error) {
	list, err := s.GetListByID(userID, listID)
	if err != nil {
		return nil, err
	}

	amount := list.EstimatedTotal()
	if actualTotal != nil {
		amount = *actualTotal
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "checkout amount must be positive")
	}

	if description == "" {
		description = fmt.Sprintf("Shopping: %s", list.Name)
	}
	when := time.Now()
	if date != nil {
		when = *date
	}

	txn, err := s.transactions.CreateTransaction(userID, list.CategoryID, amount, when, description, "", false, 0)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return txn, nil
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// transactionService owns the transaction ledger. Every mutation here runs
// the recalculator for the affected categories before its database
// transaction commits, so cached actuals never drift from the log.
type transactionService struct {
	db     *gorm.DB
	recalc RecalcServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, recalc RecalcServicer) TransactionServicer {
	return &transactionService{db: db, recalc: recalc}
}

// CreateTransaction records a ledger entry against a category. The category
// must belong to the user and a budget must exist for the month derived
// from the transaction date.
func (s *transactionService) CreateTransaction(
	userID, categoryID uint,
	amount int64,
	date time.Time,
	description, notes string,
	recurring bool,
	aiConfidence float64,
) (*models.Transaction, error) {
	if date.IsZero() {
		date = time.Now()
	}
	month := models.MonthKey(date)

	transaction := models.Transaction{
		UserID:               userID,
		BudgetMonth:          month,
		CategoryID:           categoryID,
		Amount:               amount,
		Date:                 date,
		Description:          description,
		Notes:                notes,
		AICategoryConfidence: aiConfidence,
		Recurring:            recurring,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := requireBudget(tx, userID, month); err != nil {
			return err
		}

		if err := tx.Create(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		_, err := s.recalc.RecalcBudgetTotals(tx, userID, category.BudgetMonth)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// recalcOwningMonth refreshes the cached state a category carries: its
// actual and the totals of the budget month the category belongs to. A
// transaction may legally sit in a different month than its category, so
// recalculation keys on the category, never on the transaction's
// date-derived month.
func (s *transactionService) recalcOwningMonth(tx *gorm.DB, userID, categoryID uint) error {
	var category models.Category
	if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).
		First(&category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	_, err := s.recalc.RecalcBudgetTotals(tx, userID, category.BudgetMonth)
	return err
}

// requireBudget rejects writes into months that have no budget.
func requireBudget(tx *gorm.DB, userID uint, month string) error {
	var count int64
	if err := tx.Model(&models.Budget{}).
		Where("user_id = ? AND month = ?", userID, month).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.WithMessage(apperrors.ErrNoBudgetForMonth, "No budget exists for month "+month)
	}
	return nil
}

// GetTransactionByID retrieves a transaction owned by the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Preload("Category").
		Where("id = ? AND user_id = ?", transactionID, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// GetUserTransactions returns a filtered, paginated list ordered by date
// descending. Filters compose with AND; bounds are inclusive.
func (s *transactionService) GetUserTransactions(
	userID uint,
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Preload("Category").
		Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	if f.StartDate != nil {
		q = q.Where("date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date <= ?", *f.EndDate)
	}
	if f.Recurring != nil {
		q = q.Where("recurring = ?", *f.Recurring)
	}
	if f.Month != nil {
		q = q.Where("budget_month = ?", *f.Month)
	}
	return q
}

// UpdateTransaction applies a partial update. Moving a transaction to a
// different category recalculates BOTH categories: the new one to pick up
// the amount, and the old one to purge it. Skipping the old side would
// leave its cached actual overstated.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error) {
	var transaction models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).
			First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		oldCategoryID := transaction.CategoryID
		oldMonth := transaction.BudgetMonth

		updates := make(map[string]interface{})
		if update.CategoryID != nil && *update.CategoryID != oldCategoryID {
			var count int64
			if err := tx.Model(&models.Category{}).
				Where("id = ? AND user_id = ?", *update.CategoryID, userID).
				Count(&count).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count == 0 {
				return apperrors.ErrInvalidCategory
			}
			updates["category_id"] = *update.CategoryID
			transaction.CategoryID = *update.CategoryID
		}
		if update.Amount != nil {
			updates["amount"] = *update.Amount
			transaction.Amount = *update.Amount
		}
		if update.Date != nil {
			month := models.MonthKey(*update.Date)
			if month != oldMonth {
				if err := requireBudget(tx, userID, month); err != nil {
					return err
				}
				updates["budget_month"] = month
				transaction.BudgetMonth = month
			}
			updates["date"] = *update.Date
			transaction.Date = *update.Date
		}
		if update.Description != nil {
			updates["description"] = *update.Description
			transaction.Description = *update.Description
		}
		if update.Notes != nil {
			updates["notes"] = *update.Notes
			transaction.Notes = *update.Notes
		}
		if update.Recurring != nil {
			updates["recurring"] = *update.Recurring
			transaction.Recurring = *update.Recurring
		}

		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", transaction.ID).
			Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.CategoryID != oldCategoryID {
			if err := s.recalcOwningMonth(tx, userID, oldCategoryID); err != nil {
				return err
			}
		}
		return s.recalcOwningMonth(tx, userID, transaction.CategoryID)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// DeleteTransaction removes a ledger entry and recalculates its former
// category.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).
			First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrTransactionNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(&transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.recalcOwningMonth(tx, userID, transaction.CategoryID)
	})
}

package services

import (
	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// recalcService rebuilds cached actuals and budget totals from the
// transaction log. Category.Actual and Budget.Totals are denormalized
// caches; this service is the only code allowed to write them.
type recalcService struct{}

// NewRecalcService creates a new RecalcServicer.
func NewRecalcService() RecalcServicer {
	return &recalcService{}
}

// RecalcCategory sums every transaction linked to the category and writes
// the sum onto the category's cached actual. It touches no other category.
func (s *recalcService) RecalcCategory(tx *gorm.DB, categoryID uint) (int64, error) {
	var actual int64
	err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category_id = ?", categoryID).
		Scan(&actual).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err = tx.Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("actual", actual).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return actual, nil
}

// RecalcBudgetTotals recalculates every category of (user, month), sums
// planned and the fresh actuals, and writes the aggregate back onto the
// budget row. Running it twice with no intervening writes yields identical
// results.
func (s *recalcService) RecalcBudgetTotals(tx *gorm.DB, userID uint, month string) (*models.Totals, error) {
	var categories []models.Category
	err := tx.Where("user_id = ? AND budget_month = ?", userID, month).
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := &models.Totals{}
	for i := range categories {
		actual, err := s.RecalcCategory(tx, categories[i].ID)
		if err != nil {
			return nil, err
		}
		totals.Planned += categories[i].Planned
		totals.Actual += actual
	}
	totals.Difference = totals.Planned - totals.Actual

	// The budget row may not exist yet (setup creates categories first);
	// in that case the caller persists the totals itself.
	err = tx.Model(&models.Budget{}).
		Where("user_id = ? AND month = ?", userID, month).
		Updates(map[string]interface{}{
			"totals_planned":    totals.Planned,
			"totals_actual":     totals.Actual,
			"totals_difference": totals.Difference,
		}).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return totals, nil
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// monthEndService orchestrates the month-close wizard: summarize the month,
// optionally sweep surplus into a goal, then finalize, which snapshots an
// immutable report and opens the next month with carried-over balances.
type monthEndService struct {
	db     *gorm.DB
	recalc RecalcServicer
}

// NewMonthEndService creates a new MonthEndServicer.
func NewMonthEndService(db *gorm.DB, recalc RecalcServicer) MonthEndServicer {
	return &monthEndService{db: db, recalc: recalc}
}

// monthData fetches the budget and categories for a month, failing when the
// budget does not exist.
func monthData(tx *gorm.DB, userID uint, month string) (*models.Budget, []models.Category, error) {
	var budget models.Budget
	if err := tx.Where("user_id = ? AND month = ?", userID, month).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrBudgetNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := tx.Where("user_id = ? AND budget_month = ?", userID, month).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, categories, nil
}

// Summary produces the wizard's read-only projection of the current month:
// fresh totals plus categories partitioned by variance. It transitions no
// persisted state beyond the recalculation itself.
func (s *monthEndService) Summary(userID uint) (*MonthSummary, error) {
	month := currentMonth()

	var summary MonthSummary
	err := s.db.Transaction(func(tx *gorm.DB) error {
		budget, _, err := monthData(tx, userID, month)
		if err != nil {
			return err
		}

		totals, err := s.recalc.RecalcBudgetTotals(tx, userID, month)
		if err != nil {
			return err
		}

		// Reload categories so the partition sees the fresh actuals.
		_, categories, err := monthData(tx, userID, month)
		if err != nil {
			return err
		}

		summary = MonthSummary{
			Month:        month,
			TotalIncome:  budget.Income,
			TotalPlanned: totals.Planned,
			TotalActual:  totals.Actual,
		}

		for i := range categories {
			cat := &categories[i]
			if cat.Type != models.CategoryTypeSavings {
				summary.TotalExpenses += cat.Actual
			}

			item := models.CategorySummary{
				Name:     cat.Name,
				Type:     cat.Type,
				Planned:  cat.Planned,
				Actual:   cat.Actual,
				Variance: cat.Variance(),
			}
			switch {
			case item.Variance < 0:
				summary.Overspent = append(summary.Overspent, item)
			case item.Variance > 0:
				summary.Underspent = append(summary.Underspent, item)
			}
		}

		summary.OverallVariance = budget.Income - summary.TotalExpenses - budget.FreeToSpend
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// Sweep applies the wizard's surplus decision. With a goal, the amount is
// added to its saved balance and committed. Without one, the sweep is only
// acknowledged: the rollover itself happens structurally in Finalize when
// free-to-spend is carried forward.
func (s *monthEndService) Sweep(userID uint, amount int64, goalID *uint) (string, error) {
	if amount < 0 {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "sweep amount cannot be negative")
	}
	month := currentMonth()

	var message string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if goalID == nil {
			message = fmt.Sprintf("Acknowledged rollover of %d to the next month's starting balance", amount)
			return nil
		}

		var goal models.Goal
		if err := tx.Where("id = ? AND user_id = ?", *goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&goal).
			Update("saved_amount", goal.SavedAmount+amount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		message = fmt.Sprintf("Swept %d to goal %q", amount, goal.Name)
		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}

// Finalize closes the prior month and opens the next one: it snapshots an
// immutable report, creates the next month's budget with starting_balance
// and free_to_spend both set to prior starting balance plus prior
// free-to-spend, and re-creates every category with a fresh zero actual.
// Everything commits as one batch. Besides initial setup this is the only
// path that creates budgets, which keeps (user, month) unique; the storage
// schema enforces the same invariant as defense in depth.
func (s *monthEndService) Finalize(userID uint, priorMonth string) (*FinalizeResult, error) {
	nextMonth, err := nextMonthKey(priorMonth)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format")
	}

	var result FinalizeResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		budget, _, err := monthData(tx, userID, priorMonth)
		if err != nil {
			return err
		}

		var reportCount int64
		if err := tx.Model(&models.MonthlyReport{}).
			Where("user_id = ? AND month = ?", userID, priorMonth).
			Count(&reportCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if reportCount > 0 {
			return apperrors.ErrReportExists
		}

		var budgetCount int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND month = ?", userID, nextMonth).
			Count(&budgetCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if budgetCount > 0 {
			return apperrors.ErrBudgetExists
		}

		if _, err := s.recalc.RecalcBudgetTotals(tx, userID, priorMonth); err != nil {
			return err
		}
		_, categories, err := monthData(tx, userID, priorMonth)
		if err != nil {
			return err
		}

		var breakdown []models.CategorySummary
		var totalExpenses, totalSaved int64
		for i := range categories {
			cat := &categories[i]
			breakdown = append(breakdown, models.CategorySummary{
				Name:     cat.Name,
				Type:     cat.Type,
				Planned:  cat.Planned,
				Actual:   cat.Actual,
				Variance: cat.Variance(),
			})
			if cat.Type == models.CategoryTypeSavings {
				totalSaved += cat.Actual
			} else {
				totalExpenses += cat.Actual
			}
		}

		report := models.MonthlyReport{
			UserID:            userID,
			Month:             priorMonth,
			TotalIncome:       budget.Income,
			TotalExpenses:     totalExpenses,
			TotalSaved:        totalSaved,
			NetSurplus:        budget.Income - totalExpenses - totalSaved,
			CategoryBreakdown: breakdown,
			Insights:          []models.Insight{},
		}
		if err := tx.Create(&report).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		carried := budget.StartingBalance + budget.FreeToSpend
		newBudget := models.Budget{
			UserID:          userID,
			Month:           nextMonth,
			Income:          budget.Income,
			StartingBalance: carried,
			FreeToSpend:     carried,
		}
		if err := tx.Create(&newBudget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var newCategories []models.Category
		for i := range categories {
			cat := &categories[i]
			newCategories = append(newCategories, models.Category{
				UserID:      userID,
				BudgetMonth: nextMonth,
				Name:        cat.Name,
				Type:        cat.Type,
				Planned:     cat.Planned,
				Icon:        cat.Icon,
				Color:       cat.Color,
			})
		}
		if len(newCategories) > 0 {
			if err := tx.Create(&newCategories).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result = FinalizeResult{
			Report:        report,
			NewBudget:     newBudget,
			NewCategories: newCategories,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

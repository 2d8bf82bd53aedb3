package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// budgetService owns budget and category lifecycle within a month.
type budgetService struct {
	db     *gorm.DB
	recalc RecalcServicer
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB, recalc RecalcServicer) BudgetServicer {
	return &budgetService{db: db, recalc: recalc}
}

// defaultCategories generates the fixed 50/30/20 envelope set. Remainders
// from integer division are folded into the last category of each group so
// planned always sums exactly to income.
func defaultCategories(userID uint, month string, income int64) []models.Category {
	needs := income * 50 / 100
	wants := income * 30 / 100
	savings := income - needs - wants

	housing := needs * 40 / 100
	groceries := needs * 30 / 100
	utilities := needs - housing - groceries

	entertainment := wants / 2
	dining := wants - entertainment

	return []models.Category{
		{UserID: userID, BudgetMonth: month, Name: "Housing", Type: models.CategoryTypeNeed, Planned: housing, Icon: "home", Color: "#0f9d58"},
		{UserID: userID, BudgetMonth: month, Name: "Groceries", Type: models.CategoryTypeNeed, Planned: groceries, Icon: "shopping-bag", Color: "#0f9d58"},
		{UserID: userID, BudgetMonth: month, Name: "Utilities", Type: models.CategoryTypeNeed, Planned: utilities, Icon: "zap", Color: "#0f9d58"},
		{UserID: userID, BudgetMonth: month, Name: "Entertainment", Type: models.CategoryTypeWant, Planned: entertainment, Icon: "film", Color: "#ED254E"},
		{UserID: userID, BudgetMonth: month, Name: "Dining Out", Type: models.CategoryTypeWant, Planned: dining, Icon: "utensils", Color: "#ED254E"},
		{UserID: userID, BudgetMonth: month, Name: "Goal Contribution", Type: models.CategoryTypeSavings, Planned: savings, Icon: "piggy-bank", Color: "#F5BB00"},
	}
}

// Setup performs the one-time first budget creation for an account. Setup
// is strictly one-shot per user, not per month: later months are opened
// only by month-end finalization.
func (s *budgetService) Setup(
	userID uint,
	income, startingBalance int64,
	method models.AllocationMethod,
	initial []CategorySpec,
) (*MonthBudget, error) {
	month := currentMonth()

	var result MonthBudget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if user.IsSetupComplete {
			return apperrors.ErrSetupAlreadyComplete
		}

		var count int64
		if err := tx.Model(&models.Budget{}).
			Where("user_id = ? AND month = ?", userID, month).
			Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return apperrors.ErrBudgetExists
		}

		var categories []models.Category
		switch {
		case method == models.AllocationFiftyThirtyTwenty:
			categories = defaultCategories(userID, month, income)
		case len(initial) > 0:
			for _, spec := range initial {
				categories = append(categories, models.Category{
					UserID:      userID,
					BudgetMonth: month,
					Name:        spec.Name,
					Type:        spec.Type,
					Planned:     spec.Planned,
					Icon:        spec.Icon,
					Color:       spec.Color,
				})
			}
		default:
			categories = []models.Category{{
				UserID:      userID,
				BudgetMonth: month,
				Name:        "Unallocated",
				Type:        models.CategoryTypeNeed,
				Planned:     income,
				Icon:        "dollar-sign",
				Color:       "#999999",
			}}
		}

		if err := tx.Create(&categories).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var totalPlanned int64
		for _, c := range categories {
			totalPlanned += c.Planned
		}

		budget := models.Budget{
			UserID:          userID,
			Month:           month,
			Income:          income,
			StartingBalance: startingBalance,
			FreeToSpend:     income - totalPlanned,
		}
		if err := tx.Create(&budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Model(&user).Update("is_setup_complete", true).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		totals, err := s.recalc.RecalcBudgetTotals(tx, userID, month)
		if err != nil {
			return err
		}
		budget.Totals = *totals

		result = MonthBudget{Budget: budget, Categories: categories}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBudget applies a partial update to the current month's budget and
// recomputes free-to-spend and totals.
func (s *budgetService) UpdateBudget(userID uint, income, startingBalance *int64) (*models.Budget, error) {
	month := currentMonth()

	var budget models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if income != nil {
			budget.Income = *income
		}
		if startingBalance != nil {
			budget.StartingBalance = *startingBalance
		}

		return s.refreshBudget(tx, &budget)
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// refreshBudget recomputes free-to-spend from the current plan and rewrites
// the budget's cached totals. Must run inside the caller's transaction.
func (s *budgetService) refreshBudget(tx *gorm.DB, budget *models.Budget) error {
	var totalPlanned int64
	err := tx.Model(&models.Category{}).
		Select("COALESCE(SUM(planned), 0)").
		Where("user_id = ? AND budget_month = ?", budget.UserID, budget.Month).
		Scan(&totalPlanned).Error
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budget.FreeToSpend = budget.Income - totalPlanned
	if err := tx.Model(budget).Updates(map[string]interface{}{
		"income":           budget.Income,
		"starting_balance": budget.StartingBalance,
		"free_to_spend":    budget.FreeToSpend,
	}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals, err := s.recalc.RecalcBudgetTotals(tx, budget.UserID, budget.Month)
	if err != nil {
		return err
	}
	budget.Totals = *totals
	return nil
}

// GetBudget returns the budget and categories for a month, forcing a full
// recalculation first so readers never observe stale cached state.
func (s *budgetService) GetBudget(userID uint, month string) (*MonthBudget, error) {
	var result MonthBudget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			First(&result.Budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		totals, err := s.recalc.RecalcBudgetTotals(tx, userID, month)
		if err != nil {
			return err
		}
		result.Budget.Totals = *totals

		if err := tx.Where("user_id = ? AND budget_month = ?", userID, month).
			Order("id").
			Find(&result.Categories).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentBudget returns the budget for the present month.
func (s *budgetService) CurrentBudget(userID uint) (*MonthBudget, error) {
	return s.GetBudget(userID, currentMonth())
}

// CreateCategory adds an envelope to the current month. A budget must
// already exist for the month.
func (s *budgetService) CreateCategory(userID uint, spec CategorySpec) (*models.Category, error) {
	month := currentMonth()

	category := models.Category{
		UserID:      userID,
		BudgetMonth: month,
		Name:        spec.Name,
		Type:        spec.Type,
		Planned:     spec.Planned,
		Icon:        spec.Icon,
		Color:       spec.Color,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var budget models.Budget
		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNoBudgetForMonth
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Create(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return s.refreshBudget(tx, &budget)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies a partial update. A plan change recomputes the
// owning budget; the cached actual is refreshed before returning either
// way.
func (s *budgetService) UpdateCategory(userID, categoryID uint, update CategoryUpdate) (*models.Category, error) {
	var category models.Category
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		updates := make(map[string]interface{})
		plannedChanged := false
		if update.Name != nil {
			updates["name"] = *update.Name
		}
		if update.Type != nil {
			updates["type"] = *update.Type
		}
		if update.Planned != nil && *update.Planned != category.Planned {
			updates["planned"] = *update.Planned
			plannedChanged = true
		}
		if update.Icon != nil {
			updates["icon"] = *update.Icon
		}
		if update.Color != nil {
			updates["color"] = *update.Color
		}

		if len(updates) > 0 {
			if err := tx.Model(&category).Updates(updates).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if plannedChanged {
			var budget models.Budget
			err := tx.Where("user_id = ? AND month = ?", userID, category.BudgetMonth).
				First(&budget).Error
			if err == nil {
				if err := s.refreshBudget(tx, &budget); err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		actual, err := s.recalc.RecalcCategory(tx, category.ID)
		if err != nil {
			return err
		}
		category.Actual = actual
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes an envelope. Categories with recorded spend are
// not deletable; the transaction history would be orphaned.
func (s *budgetService) DeleteCategory(userID, categoryID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Where("id = ? AND user_id = ?", categoryID, userID).
			First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrCategoryNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		actual, err := s.recalc.RecalcCategory(tx, category.ID)
		if err != nil {
			return err
		}
		if actual > 0 {
			return apperrors.ErrCategoryHasSpending
		}

		if err := tx.Delete(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var budget models.Budget
		err = tx.Where("user_id = ? AND month = ?", userID, category.BudgetMonth).
			First(&budget).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.refreshBudget(tx, &budget)
	})
}

package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "pocketplan/internal/errors"
	"pocketplan/internal/models"
)

// goalService owns savings goal lifecycle and contributions.
type goalService struct {
	db *gorm.DB
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db}
}

// CreateGoal creates a savings goal with nothing saved yet.
func (s *goalService) CreateGoal(
	userID uint,
	name string,
	targetAmount, monthlyContribution int64,
	targetDate *time.Time,
) (*models.Goal, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal name is required")
	}
	if targetAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount cannot be negative")
	}

	goal := models.Goal{
		UserID:              userID,
		Name:                name,
		TargetAmount:        targetAmount,
		SavedAmount:         0,
		MonthlyContribution: monthlyContribution,
		TargetDate:          targetDate,
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// GetUserGoals lists the user's goals, largest target first.
func (s *goalService) GetUserGoals(userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).
		Order("target_amount DESC").
		Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goals, nil
}

// GetGoalByID retrieves a goal owned by the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).
		First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal applies a partial update. SavedAmount may be adjusted
// directly, including downward; only the target itself must stay
// non-negative.
func (s *goalService) UpdateGoal(userID, goalID uint, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.TargetAmount != nil {
		if *update.TargetAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount cannot be negative")
		}
		updates["target_amount"] = *update.TargetAmount
	}
	if update.SavedAmount != nil {
		updates["saved_amount"] = *update.SavedAmount
	}
	if update.MonthlyContribution != nil {
		updates["monthly_contribution"] = *update.MonthlyContribution
	}
	if update.TargetDate != nil {
		updates["target_date"] = *update.TargetDate
	}

	if len(updates) > 0 {
		if err := s.db.Model(goal).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return goal, nil
}

// DeleteGoal removes a goal.
func (s *goalService) DeleteGoal(userID, goalID uint) error {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(goal).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Contribute moves funds from the current month's free-to-spend into the
// goal's saved amount. Both writes commit as one unit. Contributions are
// scoped to the current month's budget; without one there is nothing to
// contribute from.
//
// Overspend policy: when the user's strict mode is on, contributions that
// exceed free-to-spend are rejected; otherwise free-to-spend may go
// negative.
func (s *goalService) Contribute(userID, goalID uint, amount int64) (*models.Goal, *models.Budget, error) {
	if amount <= 0 {
		return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}
	month := currentMonth()

	var goal models.Goal
	var budget models.Budget
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).
			First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Where("user_id = ? AND month = ?", userID, month).
			First(&budget).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrBudgetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if user.StrictMode && amount > budget.FreeToSpend {
			return apperrors.ErrInsufficientFreeToSpend
		}

		goal.SavedAmount += amount
		if err := tx.Model(&goal).Update("saved_amount", goal.SavedAmount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		budget.FreeToSpend -= amount
		if err := tx.Model(&budget).Update("free_to_spend", budget.FreeToSpend).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &goal, &budget, nil
}

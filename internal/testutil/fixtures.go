package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pocketplan/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:              email,
		Password:           string(hash),
		Name:               fmt.Sprintf("Test User %d", nextID()),
		Currency:           "USD",
		AutoCategorization: true,
		AIInsights:         true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CurrentMonth returns the month key for the present time.
func CurrentMonth() string {
	return models.MonthKey(time.Now())
}

// CreateTestBudget creates a budget for the given month with income and
// starting balance in cents.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, month string, income, startingBalance int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:          userID,
		Month:           month,
		Income:          income,
		StartingBalance: startingBalance,
		FreeToSpend:     income,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestCategory creates a category of the given type with the given
// planned amount (in cents) for the month.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint, month string, categoryType models.CategoryType, planned int64) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:      userID,
		BudgetMonth: month,
		Name:        fmt.Sprintf("Test Category %d", nextID()),
		Type:        categoryType,
		Planned:     planned,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction against the category with the
// given amount (in cents). The date defaults to now.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, category *models.Category, amount int64) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:      userID,
		BudgetMonth: category.BudgetMonth,
		CategoryID:  category.ID,
		Amount:      amount,
		Date:        time.Now(),
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestGoal creates a savings goal with the given target (in cents).
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, target int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: target,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestShoppingList creates a list with the given items against the
// category.
func CreateTestShoppingList(t *testing.T, db *gorm.DB, userID uint, categoryID uint, items []models.ShoppingItem) *models.ShoppingList {
	t.Helper()

	list := &models.ShoppingList{
		UserID:     userID,
		Name:       fmt.Sprintf("Test List %d", nextID()),
		CategoryID: categoryID,
		Items:      items,
	}
	if err := db.Create(list).Error; err != nil {
		t.Fatalf("failed to create test shopping list: %v", err)
	}
	return list
}

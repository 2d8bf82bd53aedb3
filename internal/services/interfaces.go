package services

import (
	"time"

	"gorm.io/gorm"

	"pocketplan/internal/models"
	"pocketplan/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateSettings(userID uint, update SettingsUpdate) (*models.User, error)
}

// SettingsUpdate holds optional user-settings fields; nil means unchanged.
type SettingsUpdate struct {
	Currency           *string
	AutoCategorization *bool
	StrictMode         *bool
	AIInsights         *bool
}

// RecalcServicer rebuilds the cached actual/totals state from the
// transaction log. It is the single source of truth for what a month
// currently looks like and must run, inside the same database transaction,
// after every mutation that could change spend or plan.
type RecalcServicer interface {
	RecalcCategory(tx *gorm.DB, categoryID uint) (int64, error)
	RecalcBudgetTotals(tx *gorm.DB, userID uint, month string) (*models.Totals, error)
}

// CategorySpec describes a category to create.
type CategorySpec struct {
	Name    string
	Type    models.CategoryType
	Planned int64
	Icon    string
	Color   string
}

// CategoryUpdate holds optional category fields; nil means unchanged.
type CategoryUpdate struct {
	Name    *string
	Type    *models.CategoryType
	Planned *int64
	Icon    *string
	Color   *string
}

// MonthBudget pairs a budget with its categories, both freshly
// recalculated.
type MonthBudget struct {
	Budget     models.Budget     `json:"budget"`
	Categories []models.Category `json:"categories"`
}

// BudgetServicer defines the contract for budget and category lifecycle
// within a month.
type BudgetServicer interface {
	Setup(userID uint, income, startingBalance int64, method models.AllocationMethod, initial []CategorySpec) (*MonthBudget, error)
	UpdateBudget(userID uint, income, startingBalance *int64) (*models.Budget, error)
	GetBudget(userID uint, month string) (*MonthBudget, error)
	CurrentBudget(userID uint) (*MonthBudget, error)
	CreateCategory(userID uint, spec CategorySpec) (*models.Category, error)
	UpdateCategory(userID, categoryID uint, update CategoryUpdate) (*models.Category, error)
	DeleteCategory(userID, categoryID uint) error
}

// TransactionFilter holds optional, AND-composed filter parameters for
// listing transactions. Amount and date bounds are inclusive.
type TransactionFilter struct {
	CategoryID *uint
	MinAmount  *int64
	MaxAmount  *int64
	StartDate  *time.Time
	EndDate    *time.Time
	Recurring  *bool
	Month      *string
}

// TransactionUpdate holds optional transaction fields; nil means unchanged.
type TransactionUpdate struct {
	CategoryID  *uint
	Amount      *int64
	Date        *time.Time
	Description *string
	Notes       *string
	Recurring   *bool
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateTransaction(userID, categoryID uint, amount int64, date time.Time, description, notes string, recurring bool, aiConfidence float64) (*models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransaction(userID, transactionID uint, update TransactionUpdate) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// GoalUpdate holds optional goal fields; nil means unchanged. SavedAmount
// may be adjusted directly, including downward.
type GoalUpdate struct {
	Name                *string
	TargetAmount        *int64
	SavedAmount         *int64
	MonthlyContribution *int64
	TargetDate          *time.Time
}

// GoalServicer defines the contract for savings goals and contributions.
type GoalServicer interface {
	CreateGoal(userID uint, name string, targetAmount, monthlyContribution int64, targetDate *time.Time) (*models.Goal, error)
	GetUserGoals(userID uint) ([]models.Goal, error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, update GoalUpdate) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	Contribute(userID, goalID uint, amount int64) (*models.Goal, *models.Budget, error)
}

// MonthSummary is the read-only projection produced by the month-end
// wizard's first step.
type MonthSummary struct {
	Month           string                   `json:"month"`
	TotalIncome     int64                    `json:"total_income"`
	TotalPlanned    int64                    `json:"total_planned"`
	TotalActual     int64                    `json:"total_actual"`
	TotalExpenses   int64                    `json:"total_expenses"`
	OverallVariance int64                    `json:"overall_variance"`
	Overspent       []models.CategorySummary `json:"overspent_categories"`
	Underspent      []models.CategorySummary `json:"underspent_categories"`
}

// FinalizeResult is what month-end finalization produces: the immutable
// report for the closed month plus the freshly opened month.
type FinalizeResult struct {
	Report        models.MonthlyReport `json:"report"`
	NewBudget     models.Budget        `json:"new_budget"`
	NewCategories []models.Category    `json:"new_categories"`
}

// MonthEndServicer orchestrates the month-close wizard.
type MonthEndServicer interface {
	Summary(userID uint) (*MonthSummary, error)
	Sweep(userID uint, amount int64, goalID *uint) (string, error)
	Finalize(userID uint, priorMonth string) (*FinalizeResult, error)
}

// ShoppingListUpdate holds optional shopping-list fields; nil means
// unchanged.
type ShoppingListUpdate struct {
	Name       *string
	CategoryID *uint
	Items      *[]models.ShoppingItem
}

// ShoppingServicer defines the contract for shopping lists and their
// conversion into transactions.
type ShoppingServicer interface {
	CreateList(userID uint, name string, categoryID uint, items []models.ShoppingItem) (*models.ShoppingList, error)
	GetUserLists(userID uint) ([]models.ShoppingList, error)
	GetListByID(userID, listID uint) (*models.ShoppingList, error)
	UpdateList(userID, listID uint, update ShoppingListUpdate) (*models.ShoppingList, error)
	DeleteList(userID, listID uint) error
	Checkout(userID, listID uint, actualTotal *int64, description string, date *time.Time) (*models.Transaction, error)
}

// CategorizePrediction is the oracle's advisory answer for a transaction
// description.
type CategorizePrediction struct {
	PredictedCategoryID uint            `json:"predicted_category_id"`
	Confidence          float64         `json:"confidence"`
	RawPredictions      []CategoryScore `json:"raw_predictions,omitempty"`
}

// CategoryScore is one label/score pair from the oracle.
type CategoryScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// BudgetStatusPrediction is a heuristic month-trajectory projection.
type BudgetStatusPrediction struct {
	Projection string `json:"projection"`
	RiskLevel  string `json:"risk_level"`
}

// OracleServicer is the pluggable prediction collaborator. Its answers are
// advisory only; no ledger operation requires them.
type OracleServicer interface {
	Categorize(userID uint, description string, contextCategories map[uint]string) (*CategorizePrediction, error)
	Insights(userID uint, spendingSummary string) ([]models.Insight, error)
	PredictBudgetStatus(monthProgressPct, variancePct float64) (*BudgetStatusPrediction, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

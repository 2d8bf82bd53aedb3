package models

// AllocationMethod selects how setup distributes income across categories.
type AllocationMethod string

const (
	AllocationFiftyThirtyTwenty AllocationMethod = "50/30/20"
	AllocationManual            AllocationMethod = "Manual"
)

// Totals holds the cached aggregate state of a budget month. It is a
// denormalization: the transaction log is authoritative, and these values
// are rewritten by the recalculator after every affecting mutation.
type Totals struct {
	Planned    int64 `json:"planned"`
	Actual     int64 `json:"actual"`
	Difference int64 `json:"difference"`
}

// Budget is one user's plan for a single budget-month. There is at most one
// budget per (user, month); months after the first are created only by
// month-end finalization.
type Budget struct {
	Base
	UserID uint   `gorm:"not null;uniqueIndex:idx_budgets_user_month" json:"user_id"`
	Month  string `gorm:"size:7;not null;uniqueIndex:idx_budgets_user_month" json:"month"`

	// All monetary values are cents.
	Income          int64 `gorm:"not null;default:0" json:"income"`
	StartingBalance int64 `gorm:"not null;default:0" json:"starting_balance"`
	FreeToSpend     int64 `gorm:"not null;default:0" json:"free_to_spend"`

	Totals Totals `gorm:"embedded;embeddedPrefix:totals_" json:"totals"`
}

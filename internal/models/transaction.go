package models

import "time"

// Transaction is one entry in the ledger. Amount is signed cents; the
// convention is positive = expense, so refunds are negative.
type Transaction struct {
	Base
	UserID uint `gorm:"not null;index" json:"user_id"`
	// Derived from Date as "YYYY-MM"; a budget must exist for this month.
	BudgetMonth string `gorm:"size:7;not null;index" json:"budget_month"`
	CategoryID  uint   `gorm:"not null;index" json:"category_id"`

	Amount      int64     `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null" json:"date"`
	Description string    `gorm:"size:255;not null" json:"description"`
	Notes       string    `gorm:"size:255" json:"notes"`

	// Advisory confidence from the categorization oracle; zero when the
	// category was chosen by the user.
	AICategoryConfidence float64 `gorm:"default:0" json:"ai_category_confidence"`

	Recurring bool `gorm:"default:false" json:"recurring"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

package models

// CategoryType partitions envelopes into the three 50/30/20 groups.
type CategoryType string

const (
	CategoryTypeNeed    CategoryType = "Need"
	CategoryTypeWant    CategoryType = "Want"
	CategoryTypeSavings CategoryType = "Savings"
)

// Category is a spending envelope within one budget-month. It is tied to
// its budget by the (user_id, budget_month) composite rather than a foreign
// key, so categories can be created before or after the budget row.
type Category struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	BudgetMonth string `gorm:"size:7;not null;index" json:"budget_month"`

	Name    string       `gorm:"size:50;not null" json:"name"`
	Type    CategoryType `gorm:"size:10;not null;default:Need" json:"type"`
	Planned int64        `gorm:"not null;default:0" json:"planned"`
	// Cached sum of the category's transactions; rewritten on recalculation.
	Actual int64  `gorm:"not null;default:0" json:"actual"`
	Icon   string `gorm:"size:50;default:dollar-sign" json:"icon"`
	Color  string `gorm:"size:7;default:#333333" json:"color"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// Variance is the planned-minus-actual slack for the envelope. Negative
// means overspent.
func (c *Category) Variance() int64 {
	return c.Planned - c.Actual
}

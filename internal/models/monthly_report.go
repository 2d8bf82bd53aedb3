package models

// CategorySummary is the per-envelope line item snapshotted into a monthly
// report and returned by the month-end summary projection.
type CategorySummary struct {
	Name     string       `json:"name"`
	Type     CategoryType `json:"type"`
	Planned  int64        `json:"planned"`
	Actual   int64        `json:"actual"`
	Variance int64        `json:"variance"`
}

// Insight is a single generated observation attached to a report.
type Insight struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MonthlyReport is the immutable snapshot written when a month is closed.
// It is created exactly once per (user, month) and never mutated.
type MonthlyReport struct {
	Base
	UserID uint   `gorm:"not null;uniqueIndex:idx_reports_user_month" json:"user_id"`
	Month  string `gorm:"size:7;not null;uniqueIndex:idx_reports_user_month" json:"month"`

	TotalIncome   int64 `gorm:"not null;default:0" json:"total_income"`
	TotalExpenses int64 `gorm:"not null;default:0" json:"total_expenses"` // Need + Want actual
	TotalSaved    int64 `gorm:"not null;default:0" json:"total_saved"`    // Savings actual
	NetSurplus    int64 `gorm:"not null;default:0" json:"net_surplus"`

	CategoryBreakdown []CategorySummary `gorm:"serializer:json" json:"category_breakdown"`
	Insights          []Insight         `gorm:"serializer:json" json:"insights"`
}

package models

import "time"

// Goal is a savings target funded by contributions out of a budget's
// free-to-spend balance.
type Goal struct {
	Base
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name                string     `gorm:"size:100;not null" json:"name"`
	TargetAmount        int64      `gorm:"not null;default:0" json:"target_amount"`
	SavedAmount         int64      `gorm:"not null;default:0" json:"saved_amount"`
	MonthlyContribution int64      `gorm:"not null;default:0" json:"monthly_contribution"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
}

// ProgressPercent is derived, never stored: min(100, saved/target*100),
// 0 when there is no target.
func (g *Goal) ProgressPercent() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	pct := float64(g.SavedAmount) / float64(g.TargetAmount) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

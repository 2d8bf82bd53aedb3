package models

// User represents an account holder. Settings flags are embedded directly
// in the user row rather than a separate settings table.
type User struct {
	Base
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Currency string `gorm:"size:3;default:USD" json:"currency"`

	// Settings flags
	AutoCategorization bool `gorm:"default:true" json:"auto_categorization"`
	StrictMode         bool `gorm:"default:false" json:"strict_mode"`
	AIInsights         bool `gorm:"default:true" json:"ai_insights"`

	// Flips exactly once, at the first successful budget setup.
	IsSetupComplete bool `gorm:"default:false" json:"is_setup_complete"`

	// Relationships
	Budgets      []Budget      `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Goals        []Goal        `gorm:"foreignKey:UserID" json:"goals,omitempty"`
}

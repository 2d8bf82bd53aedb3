package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// MonthKeyFormat is the time layout for budget-month keys ("YYYY-MM").
const MonthKeyFormat = "2006-01"

// MonthKey returns the budget-month key for the given time.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyFormat)
}

// ParseMonthKey validates a "YYYY-MM" key and returns the first instant of
// that month.
func ParseMonthKey(key string) (time.Time, error) {
	return time.Parse(MonthKeyFormat, key)
}

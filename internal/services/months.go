package services

import (
	"time"

	"pocketplan/internal/models"
)

// currentMonth returns the budget-month key for the present time.
func currentMonth() string {
	return models.MonthKey(time.Now())
}

// nextMonthKey returns the month key immediately after the given "YYYY-MM"
// key. The key must already be validated.
func nextMonthKey(month string) (string, error) {
	t, err := time.Parse(models.MonthKeyFormat, month)
	if err != nil {
		return "", err
	}
	return models.MonthKey(t.AddDate(0, 1, 0)), nil
}

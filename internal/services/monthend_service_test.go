package services

import (
	"testing"

	"pocketplan/internal/models"
	"pocketplan/internal/testutil"
)

func TestMonthEndSummary(t *testing.T) {
	t.Run("partitions_by_variance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		month := testutil.CurrentMonth()
		testutil.CreateTestBudget(t, db, user.ID, month, 100000, 0)
		over := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 10000)
		under := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeWant, 10000)
		exact := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeWant, 5000)

		testutil.CreateTestTransaction(t, db, user.ID, over, 15000)
		testutil.CreateTestTransaction(t, db, user.ID, under, 4000)
		testutil.CreateTestTransaction(t, db, user.ID, exact, 5000)

		summary, err := svc.Summary(user.ID)
		testutil.AssertNoError(t, err)

		if len(summary.Overspent) != 1 || summary.Overspent[0].Variance != -5000 {
			t.Errorf("expected one overspent category at -5000, got %+v", summary.Overspent)
		}
		if len(summary.Underspent) != 1 || summary.Underspent[0].Variance != 6000 {
			t.Errorf("expected one underspent category at 6000, got %+v", summary.Underspent)
		}
		if summary.TotalExpenses != 24000 {
			t.Errorf("expected total expenses 24000, got %d", summary.TotalExpenses)
		}
		if summary.TotalActual != 24000 {
			t.Errorf("expected total actual 24000, got %d", summary.TotalActual)
		}
	})

	t.Run("savings_excluded_from_expenses", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		month := testutil.CurrentMonth()
		testutil.CreateTestBudget(t, db, user.ID, month, 100000, 0)
		spend := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 10000)
		save := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeSavings, 20000)

		testutil.CreateTestTransaction(t, db, user.ID, spend, 8000)
		testutil.CreateTestTransaction(t, db, user.ID, save, 20000)

		summary, err := svc.Summary(user.ID)
		testutil.AssertNoError(t, err)
		if summary.TotalExpenses != 8000 {
			t.Errorf("savings should not count as expenses, got %d", summary.TotalExpenses)
		}
		if summary.TotalActual != 28000 {
			t.Errorf("expected total actual 28000, got %d", summary.TotalActual)
		}
	})

	t.Run("no_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Summary(user.ID)
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})
}

func TestMonthEndSweep(t *testing.T) {
	t.Run("into_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, testutil.CurrentMonth(), 100000, 0)
		goal := testutil.CreateTestGoal(t, db, user.ID, 500000)

		_, err := svc.Sweep(user.ID, 7000, &goal.ID)
		testutil.AssertNoError(t, err)

		var stored models.Goal
		testutil.AssertNoError(t, db.First(&stored, goal.ID).Error)
		if stored.SavedAmount != 7000 {
			t.Errorf("expected swept 7000, got %d", stored.SavedAmount)
		}
	})

	t.Run("rollover_acknowledged_without_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, testutil.CurrentMonth(), 100000, 0)

		message, err := svc.Sweep(user.ID, 7000, nil)
		testutil.AssertNoError(t, err)
		if message == "" {
			t.Error("expected an acknowledgement message")
		}
	})

	t.Run("unknown_goal", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestBudget(t, db, user.ID, testutil.CurrentMonth(), 100000, 0)

		missing := uint(9999)
		_, err := svc.Sweep(user.ID, 7000, &missing)
		testutil.AssertAppError(t, err, "GOAL_NOT_FOUND")
	})
}

func TestMonthEndFinalize(t *testing.T) {
	t.Run("carries_balances_and_duplicates_plan", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		month := "2026-07"
		budget := testutil.CreateTestBudget(t, db, user.ID, month, 100000, 1000)
		testutil.AssertNoError(t, db.Model(budget).Update("free_to_spend", 500).Error)
		spend := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 60000)
		save := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeSavings, 20000)
		testutil.CreateTestTransaction(t, db, user.ID, spend, 55000)
		testutil.CreateTestTransaction(t, db, user.ID, save, 20000)

		result, err := svc.Finalize(user.ID, month)
		testutil.AssertNoError(t, err)

		if result.NewBudget.Month != "2026-08" {
			t.Errorf("expected new month 2026-08, got %s", result.NewBudget.Month)
		}
		if result.NewBudget.StartingBalance != 1500 {
			t.Errorf("expected carried starting balance 1500, got %d", result.NewBudget.StartingBalance)
		}
		if result.NewBudget.FreeToSpend != 1500 {
			t.Errorf("expected carried free_to_spend 1500, got %d", result.NewBudget.FreeToSpend)
		}
		if result.Report.TotalExpenses != 55000 {
			t.Errorf("expected report expenses 55000, got %d", result.Report.TotalExpenses)
		}
		if result.Report.TotalSaved != 20000 {
			t.Errorf("expected report saved 20000, got %d", result.Report.TotalSaved)
		}
		if result.Report.NetSurplus != 25000 {
			t.Errorf("expected net surplus 25000, got %d", result.Report.NetSurplus)
		}

		if len(result.NewCategories) != 2 {
			t.Fatalf("expected 2 duplicated categories, got %d", len(result.NewCategories))
		}
		for _, c := range result.NewCategories {
			if c.Actual != 0 {
				t.Errorf("duplicated category %s should start with zero actual, got %d", c.Name, c.Actual)
			}
			if c.BudgetMonth != "2026-08" {
				t.Errorf("duplicated category %s has month %s", c.Name, c.BudgetMonth)
			}
		}
	})

	t.Run("conflicts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)
		month := "2026-07"
		testutil.CreateTestBudget(t, db, user.ID, month, 100000, 0)
		testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 60000)

		_, err := svc.Finalize(user.ID, month)
		testutil.AssertNoError(t, err)

		// Closing the same month again is a conflict.
		_, err = svc.Finalize(user.ID, month)
		testutil.AssertAppError(t, err, "REPORT_EXISTS")
	})

	t.Run("missing_prior_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Finalize(user.ID, "2026-07")
		testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
	})

	t.Run("invalid_month_key", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewMonthEndService(db, NewRecalcService())
		user := testutil.CreateTestUser(t, db)

		_, err := svc.Finalize(user.ID, "July 2026")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

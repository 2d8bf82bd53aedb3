package services

import (
	"testing"

	"pocketplan/internal/models"
	"pocketplan/internal/testutil"
)

func TestCreateList(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, testutil.CurrentMonth(), models.CategoryTypeNeed, 50000)

		list, err := svc.CreateList(user.ID, "Weekly shop", cat.ID, []models.ShoppingItem{
			{Name: "Milk", EstimatedPrice: 350, Quantity: 2},
			{Name: "Bread", EstimatedPrice: 250, Quantity: 1},
		})
		testutil.AssertNoError(t, err)

		if list.EstimatedTotal() != 950 {
			t.Errorf("expected estimated total 950, got %d", list.EstimatedTotal())
		}
	})

	t.Run("foreign_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, other.ID, testutil.CurrentMonth(), models.CategoryTypeNeed, 50000)

		_, err := svc.CreateList(user.ID, "Sneaky", cat.ID, nil)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestUpdateList(t *testing.T) {
	t.Run("items_replaced_wholesale", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		cat := testutil.CreateTestCategory(t, db, user.ID, testutil.CurrentMonth(), models.CategoryTypeNeed, 50000)
		list := testutil.CreateTestShoppingList(t, db, user.ID, cat.ID, []models.ShoppingItem{
			{Name: "Milk", EstimatedPrice: 350, Quantity: 2},
		})

		items := []models.ShoppingItem{{Name: "Eggs", EstimatedPrice: 500, Quantity: 1}}
		updated, err := svc.UpdateList(user.ID, list.ID, ShoppingListUpdate{Items: &items})
		testutil.AssertNoError(t, err)
		if len(updated.Items) != 1 || updated.Items[0].Name != "Eggs" {
			t.Errorf("expected items replaced, got %+v", updated.Items)
		}
	})
}

func TestCheckout(t *testing.T) {
	t.Run("converts_list_into_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		month := testutil.CurrentMonth()
		testutil.CreateTestBudget(t, db, user.ID, month, 100000, 0)
		cat := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 50000)
		list := testutil.CreateTestShoppingList(t, db, user.ID, cat.ID, []models.ShoppingItem{
			{Name: "Milk", EstimatedPrice: 350, Quantity: 2},
			{Name: "Bread", EstimatedPrice: 250, Quantity: 1},
		})

		txn, err := svc.Checkout(user.ID, list.ID, nil, "", nil)
		testutil.AssertNoError(t, err)

		if txn.Amount != 950 {
			t.Errorf("expected transaction for the estimated total 950, got %d", txn.Amount)
		}
		if txn.CategoryID != cat.ID {
			t.Errorf("expected transaction against list category %d, got %d", cat.ID, txn.CategoryID)
		}

		var stored models.Category
		testutil.AssertNoError(t, db.First(&stored, cat.ID).Error)
		if stored.Actual != 950 {
			t.Errorf("checkout must flow through recalculation, got actual %d", stored.Actual)
		}

		_, err = svc.GetListByID(user.ID, list.ID)
		testutil.AssertAppError(t, err, "SHOPPING_LIST_NOT_FOUND")
	})

	t.Run("actual_total_overrides_estimate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		month := testutil.CurrentMonth()
		testutil.CreateTestBudget(t, db, user.ID, month, 100000, 0)
		cat := testutil.CreateTestCategory(t, db, user.ID, month, models.CategoryTypeNeed, 50000)
		list := testutil.CreateTestShoppingList(t, db, user.ID, cat.ID, []models.ShoppingItem{
			{Name: "Milk", EstimatedPrice: 350, Quantity: 2},
		})

		actual := int64(812)
		txn, err := svc.Checkout(user.ID, list.ID, &actual, "Corner store", nil)
		testutil.AssertNoError(t, err)
		if txn.Amount != 812 {
			t.Errorf("expected actual total 812, got %d", txn.Amount)
		}
		if txn.Description != "Corner store" {
			t.Errorf("expected custom description, got %q", txn.Description)
		}
	})

	t.Run("list_survives_rejected_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewShoppingService(db, NewTransactionService(db, NewRecalcService()))
		user := testutil.CreateTestUser(t, db)
		// No budget for the month, so the checkout transaction is rejected.
		cat := testutil.CreateTestCategory(t, db, user.ID, testutil.CurrentMonth(), models.CategoryTypeNeed, 50000)
		list := testutil.CreateTestShoppingList(t, db, user.ID, cat.ID, []models.ShoppingItem{
			{Name: "Milk", EstimatedPrice: 350, Quantity: 1},
		})

		_, err := svc.Checkout(user.ID, list.ID, nil, "", nil)
		testutil.AssertAppError(t, err, "NO_BUDGET_FOR_MONTH")

		_, err = svc.GetListByID(user.ID, list.ID)
		testutil.AssertNoError(t, err)
	})
}

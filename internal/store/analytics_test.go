package store

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func seedCompletedTask(t *testing.T, shopping *ShoppingStore, listID, foodID, userID int64, estimated, actual string) {
	t.Helper()
	var est, act *decimal.Decimal
	if estimated != "" {
		est = decPtr(estimated)
	}
	if actual != "" {
		act = decPtr(actual)
	}
	tasks, err := shopping.CreateTasks(listID, []ShoppingTaskInput{
		{FoodID: foodID, Quantity: decimal.NewFromInt(1), EstimatedCost: est, Priority: "medium"},
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := shopping.SetTaskDone(tasks[0].ID, listID, true, userID, act); err != nil {
		t.Fatalf("complete task: %v", err)
	}
}

func TestMonthlySpending(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	shopping := NewShoppingStore(db)
	analytics := NewAnalyticsStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "medium"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	seedCompletedTask(t, shopping, l.ID, milk.ID, owner.ID, "5.00", "6.00")
	seedCompletedTask(t, shopping, l.ID, milk.ID, owner.ID, "3.00", "")

	months, err := analytics.MonthlySpending(g.ID, "", "")
	if err != nil {
		t.Fatalf("monthly spending: %v", err)
	}
	if len(months) != 1 {
		t.Fatalf("months = %d, want 1", len(months))
	}
	wantMonth := time.Now().UTC().Format("2006-01")
	if months[0].Month != wantMonth {
		t.Errorf("month = %s, want %s", months[0].Month, wantMonth)
	}
	if !months[0].Total.Equal(decimal.RequireFromString("9.00")) {
		t.Errorf("total = %s, want 9.00", months[0].Total)
	}
	if months[0].Tasks != 2 {
		t.Errorf("tasks = %d, want 2", months[0].Tasks)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	foods := NewFoodStore(db)
	shopping := NewShoppingStore(db)
	analytics := NewAnalyticsStore(db)

	dairy := strPtr("Dairy")
	milk, err := foods.Create(g.ID, owner.ID, FoodInput{Name: "Milk", CategoryName: dairy})
	if err != nil {
		t.Fatalf("create milk: %v", err)
	}
	bread := seedFood(t, db, g.ID, owner.ID, "Bread")

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "medium"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	seedCompletedTask(t, shopping, l.ID, milk.ID, owner.ID, "4.00", "")
	seedCompletedTask(t, shopping, l.ID, bread.ID, owner.ID, "2.50", "")

	breakdown, err := analytics.CategoryBreakdown(g.ID, "", "")
	if err != nil {
		t.Fatalf("category breakdown: %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("categories = %d, want 2", len(breakdown))
	}

	byName := map[string]decimal.Decimal{}
	for _, c := range breakdown {
		byName[c.Category] = c.Total
	}
	if got := byName["Dairy"]; !got.Equal(decimal.RequireFromString("4.00")) {
		t.Errorf("Dairy = %s, want 4.00", got)
	}
	if got := byName["uncategorized"]; !got.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("uncategorized = %s, want 2.50", got)
	}
}

func TestSummary(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	shopping := NewShoppingStore(db)
	analytics := NewAnalyticsStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "medium"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	seedCompletedTask(t, shopping, l.ID, milk.ID, owner.ID, "5.00", "")
	if _, err := shopping.CreateTasks(l.ID, []ShoppingTaskInput{
		{FoodID: milk.ID, Quantity: decimal.NewFromInt(1), Priority: "medium"},
	}); err != nil {
		t.Fatalf("create pending task: %v", err)
	}

	if _, err := NewFridgeStore(db).Create(g.ID, owner.ID, FridgeItemInput{
		FoodID:        milk.ID,
		Quantity:      decimal.NewFromInt(1),
		UseWithinDate: "2026-09-15",
	}); err != nil {
		t.Fatalf("create fridge item: %v", err)
	}

	sum, err := analytics.Summary(g.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.TotalSpent.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("total spent = %s, want 5.00", sum.TotalSpent)
	}
	if sum.CompletedTasks != 1 || sum.PendingTasks != 1 {
		t.Errorf("tasks = %d done / %d pending, want 1/1", sum.CompletedTasks, sum.PendingTasks)
	}
	if sum.ActiveLists != 1 {
		t.Errorf("active lists = %d, want 1", sum.ActiveLists)
	}
	if sum.FridgeItems != 1 {
		t.Errorf("fridge items = %d, want 1", sum.FridgeItems)
	}
}

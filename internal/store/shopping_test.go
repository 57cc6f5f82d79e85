package store

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestShoppingListLifecycle(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	shopping := NewShoppingStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{
		Name:     "Weekly shop",
		Priority: "medium",
		Budget:   decPtr("100"),
	})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if !l.TotalCost.IsZero() {
		t.Errorf("new list total = %s, want 0", l.TotalCost)
	}
	if l.Status != "active" {
		t.Errorf("status = %s, want active", l.Status)
	}

	lists, err := shopping.ListByGroup(g.ID, ShoppingListFilter{})
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("lists = %d, want 1", len(lists))
	}
}

// A full pass over the derived-total behavior: estimates sum on create,
// an actual cost replaces the estimate on completion, and deleting a task
// pulls its contribution back out.
func TestListTotalTracksTaskMutations(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	bread := seedFood(t, db, g.ID, owner.ID, "Bread")
	shopping := NewShoppingStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{
		Name:     "Weekly shop",
		Priority: "medium",
		Budget:   decPtr("100"),
	})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	tasks, err := shopping.CreateTasks(l.ID, []ShoppingTaskInput{
		{FoodID: milk.ID, Quantity: decimal.NewFromInt(2), EstimatedCost: decPtr("5.00"), Priority: "medium"},
		{FoodID: bread.ID, Quantity: decimal.NewFromInt(1), EstimatedCost: decPtr("3.00"), Priority: "medium"},
	})
	if err != nil {
		t.Fatalf("create tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("tasks = %d, want 2", len(tasks))
	}

	assertTotal := func(want string) {
		t.Helper()
		got, err := shopping.GetList(l.ID)
		if err != nil {
			t.Fatalf("get list: %v", err)
		}
		if !got.TotalCost.Equal(decimal.RequireFromString(want)) {
			t.Errorf("total = %s, want %s", got.TotalCost, want)
		}
	}

	assertTotal("8.00")

	// Completing the milk task at 6.00 replaces its 5.00 estimate.
	if _, err := shopping.SetTaskDone(tasks[0].ID, l.ID, true, owner.ID, decPtr("6.00")); err != nil {
		t.Fatalf("set done: %v", err)
	}
	assertTotal("9.00")

	if err := shopping.DeleteTask(tasks[1].ID, l.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	assertTotal("6.00")
}

func TestSetTaskDoneRecordsWhoAndWhen(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	shopping := NewShoppingStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "low"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	tasks, err := shopping.CreateTasks(l.ID, []ShoppingTaskInput{
		{FoodID: milk.ID, Quantity: decimal.NewFromInt(1), Priority: "low"},
	})
	if err != nil {
		t.Fatalf("create tasks: %v", err)
	}

	done, err := shopping.SetTaskDone(tasks[0].ID, l.ID, true, owner.ID, nil)
	if err != nil {
		t.Fatalf("set done: %v", err)
	}
	if !done.IsDone || done.DoneAt == nil || done.DoneBy == nil || *done.DoneBy != owner.ID {
		t.Fatalf("expected completion stamps, got %+v", done)
	}

	undone, err := shopping.SetTaskDone(tasks[0].ID, l.ID, false, owner.ID, nil)
	if err != nil {
		t.Fatalf("set undone: %v", err)
	}
	if undone.IsDone || undone.DoneAt != nil || undone.DoneBy != nil {
		t.Fatalf("expected stamps cleared, got %+v", undone)
	}
}

func TestDeleteListCascadesTasks(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	shopping := NewShoppingStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "low"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := shopping.CreateTasks(l.ID, []ShoppingTaskInput{
		{FoodID: milk.ID, Quantity: decimal.NewFromInt(1), Priority: "low"},
	}); err != nil {
		t.Fatalf("create tasks: %v", err)
	}

	if err := shopping.DeleteList(l.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM shopping_tasks WHERE list_id = ?`, l.ID).Scan(&n); err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	if n != 0 {
		t.Errorf("tasks after list delete = %d, want 0", n)
	}
}

func TestTaskCarriesFoodName(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	milk := seedFood(t, db, g.ID, owner.ID, "Milk")
	shopping := NewShoppingStore(db)

	l, err := shopping.CreateList(g.ID, owner.ID, ShoppingListInput{Name: "Run", Priority: "low"})
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	tasks, err := shopping.CreateTasks(l.ID, []ShoppingTaskInput{
		{FoodID: milk.ID, Quantity: decimal.NewFromInt(1), Priority: "low"},
	})
	if err != nil {
		t.Fatalf("create tasks: %v", err)
	}
	if tasks[0].FoodName != "Milk" {
		t.Errorf("food name = %q, want Milk", tasks[0].FoodName)
	}
}

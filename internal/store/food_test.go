package store

import (
	"testing"
)

func TestFoodCreateAndGet(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	foods := NewFoodStore(db)

	cat, err := NewCategoryStore(db).Create("Dairy", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	unit, err := NewUnitStore(db).Create("liter", "volume", nil, nil)
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}

	f, err := foods.Create(g.ID, owner.ID, FoodInput{
		Name:         "Milk",
		CategoryID:   &cat.ID,
		CategoryName: &cat.Name,
		UnitID:       &unit.ID,
		UnitName:     &unit.Name,
		Brand:        strPtr("Local Farm"),
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	if f.CategoryName == nil || *f.CategoryName != "Dairy" {
		t.Errorf("category name = %v, want Dairy", f.CategoryName)
	}
	if f.UnitName == nil || *f.UnitName != "liter" {
		t.Errorf("unit name = %v, want liter", f.UnitName)
	}
	if !f.IsActive {
		t.Error("new food should be active")
	}
}

func TestFoodNameUniquePerGroup(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "a@example.com")
	other := seedUser(t, db, "b@example.com")
	gA := seedGroup(t, db, owner.ID)
	gB := seedGroup(t, db, other.ID)
	foods := NewFoodStore(db)

	seedFood(t, db, gA.ID, owner.ID, "Milk")

	if _, err := foods.Create(gA.ID, owner.ID, FoodInput{Name: "Milk"}); err == nil {
		t.Error("expected duplicate name in same group to fail")
	}

	// Same name in another group is fine.
	if _, err := foods.Create(gB.ID, other.ID, FoodInput{Name: "Milk"}); err != nil {
		t.Errorf("same name in other group: %v", err)
	}
}

func TestFoodSoftDelete(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	foods := NewFoodStore(db)

	f := seedFood(t, db, g.ID, owner.ID, "Milk")
	if err := foods.SoftDelete(f.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	listed, err := foods.ListByGroup(g.ID, FoodFilter{})
	if err != nil {
		t.Fatalf("list foods: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("listed = %d, want 0 after soft delete", len(listed))
	}

	// The row survives for history.
	got, err := foods.GetByID(f.ID)
	if err != nil {
		t.Fatalf("get food: %v", err)
	}
	if got == nil {
		t.Fatal("expected soft-deleted food to still exist")
	}
	if got.IsActive {
		t.Error("expected food to be inactive")
	}
}

func TestFoodListFilters(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	g := seedGroup(t, db, owner.ID)
	foods := NewFoodStore(db)

	cat, err := NewCategoryStore(db).Create("Dairy", nil)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := foods.Create(g.ID, owner.ID, FoodInput{Name: "Milk", CategoryID: &cat.ID}); err != nil {
		t.Fatalf("create milk: %v", err)
	}
	seedFood(t, db, g.ID, owner.ID, "Bread")

	byCategory, err := foods.ListByGroup(g.ID, FoodFilter{CategoryID: &cat.ID})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Milk" {
		t.Errorf("category filter returned %+v, want just Milk", byCategory)
	}

	bySearch, err := foods.ListByGroup(g.ID, FoodFilter{Search: "rea"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(bySearch) != 1 || bySearch[0].Name != "Bread" {
		t.Errorf("search filter returned %+v, want just Bread", bySearch)
	}
}

func TestUnitDependentGuards(t *testing.T) {
	db := testDB(t)
	units := NewUnitStore(db)

	kg, err := units.Create("kilogram", "weight", nil, nil)
	if err != nil {
		t.Fatalf("create base unit: %v", err)
	}
	if _, err := units.Create("gram", "weight", &kg.ID, decPtr("0.001")); err != nil {
		t.Fatalf("create derived unit: %v", err)
	}

	hasDeps, err := units.HasDependents(kg.ID)
	if err != nil {
		t.Fatalf("has dependents: %v", err)
	}
	if !hasDeps {
		t.Error("expected kilogram to have dependent units")
	}
}

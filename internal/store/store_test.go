package store

import (
	"database/sql"
	"testing"

	"github.com/vietnoy/pantry/internal/database"
	"github.com/vietnoy/pantry/internal/model"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserStore(db).Create(NewUser{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedGroup(t *testing.T, db *sql.DB, ownerID int64) *model.Group {
	t.Helper()
	g, err := NewGroupStore(db).Create("Test Household", nil, ownerID)
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return g
}

func seedFood(t *testing.T, db *sql.DB, groupID, createdBy int64, name string) *model.Food {
	t.Helper()
	f, err := NewFoodStore(db).Create(groupID, createdBy, FoodInput{Name: name})
	if err != nil {
		t.Fatalf("seed food %s: %v", name, err)
	}
	return f
}

func strPtr(s string) *string { return &s }

package database

import "testing"

func TestOpenEnforcesForeignKeys(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	var on int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if on != 1 {
		t.Fatalf("foreign_keys = %d, want 1", on)
	}

	_, err = db.Exec(`INSERT INTO group_members (group_id, user_id) VALUES (999, 999)`)
	if err == nil {
		t.Fatal("insert referencing missing rows succeeded, want FK violation")
	}
}

package store

import (
	"errors"
	"testing"

	"github.com/vietnoy/pantry/internal/domain"
)

func TestGroupCreateMakesOwnerMembership(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	groups := NewGroupStore(db)

	g, err := groups.Create("Home", strPtr("our place"), owner.ID)
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	if g.InviteCode == "" {
		t.Error("expected invite code to be generated")
	}
	if g.OwnerID != owner.ID {
		t.Errorf("owner = %d, want %d", g.OwnerID, owner.ID)
	}

	m, err := groups.ActiveMembership(g.ID, owner.ID)
	if err != nil {
		t.Fatalf("get membership: %v", err)
	}
	if m == nil {
		t.Fatal("expected owner membership")
	}
	if m.Role != string(domain.RoleOwner) {
		t.Errorf("role = %s, want owner", m.Role)
	}

	u, err := NewUserStore(db).GetByID(owner.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ActiveGroupID == nil || *u.ActiveGroupID != g.ID {
		t.Error("expected creator's active group to point at the new group")
	}
}

func TestJoinByInviteCode(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	g := seedGroup(t, db, owner.ID)

	joined, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != g.ID {
		t.Errorf("joined group %d, want %d", joined.ID, g.ID)
	}

	m, err := groups.ActiveMembership(g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("get membership: %v", err)
	}
	if m == nil || m.Role != string(domain.RoleMember) {
		t.Fatalf("expected member role membership, got %+v", m)
	}

	u, err := NewUserStore(db).GetByID(joiner.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ActiveGroupID == nil || *u.ActiveGroupID != g.ID {
		t.Error("expected joiner's active group to be updated")
	}
}

func TestJoinTwiceIsConflict(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	g := seedGroup(t, db, owner.ID)

	if _, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID); err != nil {
		t.Fatalf("first join: %v", err)
	}
	_, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID)
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestJoinUnknownCodeIsNotFound(t *testing.T) {
	db := testDB(t)
	joiner := seedUser(t, db, "joiner@example.com")

	_, err := NewGroupStore(db).JoinByInviteCode("NOPE22", joiner.ID)
	var derr *domain.Error
	if !errors.As(err, &derr) || derr.Kind != domain.KindNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestJoinDeactivatesOtherMembership(t *testing.T) {
	db := testDB(t)
	ownerA := seedUser(t, db, "a@example.com")
	ownerB := seedUser(t, db, "b@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	gA := seedGroup(t, db, ownerA.ID)
	gB := seedGroup(t, db, ownerB.ID)

	if _, err := groups.JoinByInviteCode(gA.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join A: %v", err)
	}
	if _, err := groups.JoinByInviteCode(gB.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join B: %v", err)
	}

	mA, err := groups.ActiveMembership(gA.ID, joiner.ID)
	if err != nil {
		t.Fatalf("membership A: %v", err)
	}
	if mA != nil {
		t.Error("expected membership in first group to be deactivated")
	}
	mB, err := groups.ActiveMembership(gB.ID, joiner.ID)
	if err != nil {
		t.Fatalf("membership B: %v", err)
	}
	if mB == nil {
		t.Error("expected active membership in second group")
	}
}

func TestRejoinReactivatesMembership(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	g := seedGroup(t, db, owner.ID)

	if _, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := groups.RemoveMember(g.ID, joiner.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID); err != nil {
		t.Fatalf("rejoin: %v", err)
	}

	// Rejoining reuses the left row instead of inserting a second one.
	var n int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM group_members WHERE group_id = ? AND user_id = ?`,
		g.ID, joiner.ID,
	).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Errorf("membership rows = %d, want 1", n)
	}

	m, err := groups.ActiveMembership(g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if m == nil || !m.IsActive || m.LeftAt != nil {
		t.Fatalf("expected reactivated membership, got %+v", m)
	}
}

func TestRemoveMemberClearsActiveGroup(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	g := seedGroup(t, db, owner.ID)

	if _, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := groups.RemoveMember(g.ID, joiner.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	u, err := NewUserStore(db).GetByID(joiner.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.ActiveGroupID != nil {
		t.Error("expected active group to be cleared after removal")
	}

	m, err := groups.ActiveMembership(g.ID, joiner.ID)
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if m != nil {
		t.Error("expected no active membership after removal")
	}
}

func TestListMembers(t *testing.T) {
	db := testDB(t)
	owner := seedUser(t, db, "owner@example.com")
	joiner := seedUser(t, db, "joiner@example.com")
	groups := NewGroupStore(db)
	g := seedGroup(t, db, owner.ID)

	if _, err := groups.JoinByInviteCode(g.InviteCode, joiner.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	members, err := groups.ListMembers(g.ID)
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %d, want 2", len(members))
	}
	if members[0].Role != string(domain.RoleOwner) {
		t.Errorf("first member role = %s, want owner", members[0].Role)
	}
}

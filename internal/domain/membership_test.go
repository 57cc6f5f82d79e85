package domain

import "testing"

func TestCanRemoveTable(t *testing.T) {
	cases := []struct {
		requester Role
		target    Role
		isSelf    bool
		want      bool
	}{
		{RoleOwner, RoleOwner, true, false},
		{RoleOwner, RoleAdmin, false, true},
		{RoleOwner, RoleMember, false, true},
		{RoleOwner, RoleOwner, false, true},

		{RoleAdmin, RoleAdmin, true, true},
		{RoleAdmin, RoleOwner, false, false},
		{RoleAdmin, RoleAdmin, false, false},
		{RoleAdmin, RoleMember, false, true},

		{RoleMember, RoleMember, true, true},
		{RoleMember, RoleOwner, false, false},
		{RoleMember, RoleAdmin, false, false},
		{RoleMember, RoleMember, false, false},
	}
	for _, c := range cases {
		got := CanRemove(c.requester, c.target, c.isSelf)
		if got != c.want {
			t.Errorf("CanRemove(%s, %s, self=%v) = %v, want %v",
				c.requester, c.target, c.isSelf, got, c.want)
		}
	}
}

func TestCanRemoveExhaustive(t *testing.T) {
	roles := []Role{RoleOwner, RoleAdmin, RoleMember}
	for _, requester := range roles {
		for _, target := range roles {
			for _, isSelf := range []bool{true, false} {
				got := CanRemove(requester, target, isSelf)

				// Self-removal depends only on the target role.
				if isSelf {
					want := target != RoleOwner
					if got != want {
						t.Errorf("self-removal as %s = %v, want %v", target, got, want)
					}
					continue
				}

				switch requester {
				case RoleOwner:
					if !got {
						t.Errorf("owner removing %s denied", target)
					}
				case RoleAdmin:
					if got != (target == RoleMember) {
						t.Errorf("admin removing %s = %v", target, got)
					}
				case RoleMember:
					if got {
						t.Errorf("member removing %s allowed", target)
					}
				}
			}
		}
	}
}

func TestCheckRemovalErrorKinds(t *testing.T) {
	if err := CheckRemoval(RoleOwner, RoleOwner, true); err == nil || err.Kind != KindBusinessRule {
		t.Errorf("owner self-removal: got %v, want business-rule violation", err)
	}
	if err := CheckRemoval(RoleAdmin, RoleAdmin, false); err == nil || err.Kind != KindAccessDenied {
		t.Errorf("admin removing admin: got %v, want access denied", err)
	}
	if err := CheckRemoval(RoleMember, RoleMember, false); err == nil || err.Kind != KindAccessDenied {
		t.Errorf("member removing member: got %v, want access denied", err)
	}
	if err := CheckRemoval(RoleMember, RoleMember, true); err != nil {
		t.Errorf("member leaving: unexpected error %v", err)
	}
	if err := CheckRemoval(RoleOwner, RoleMember, false); err != nil {
		t.Errorf("owner removing member: unexpected error %v", err)
	}
}

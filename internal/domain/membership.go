package domain

// CanRemove decides whether a requester may remove a member from a group.
// Self-removal (leaving) is allowed for everyone except the owner, who must
// transfer ownership first. Owners may remove anyone else; admins may remove
// only plain members; members may remove nobody but themselves.
func CanRemove(requester, target Role, isSelf bool) bool {
	if isSelf {
		return target != RoleOwner
	}
	switch requester {
	case RoleOwner:
		return true
	case RoleAdmin:
		return target == RoleMember
	default:
		return false
	}
}

// CheckRemoval applies CanRemove and returns the client-visible failure for
// the denied cases: an owner leaving is a business-rule violation, everything
// else is a permission problem.
func CheckRemoval(requester, target Role, isSelf bool) *Error {
	if CanRemove(requester, target, isSelf) {
		return nil
	}
	if isSelf {
		return BusinessRule("owner cannot leave group; transfer ownership first")
	}
	if requester == RoleAdmin {
		return AccessDenied("admins can only remove regular members")
	}
	return AccessDenied("you don't have permission to remove this member")
}

package domain

// GroupScoped is any entity owned by a group.
type GroupScoped interface {
	OwnerGroup() int64
}

// CheckOwnership is the single ownership guard for group-scoped entities.
// A nil entity is NotFound. An entity from another group is AccessDenied,
// deliberately distinct from NotFound: the entity exists, the requester's
// active group just isn't allowed to touch it.
func CheckOwnership[T GroupScoped](entity T, groupID int64, kind string) *Error {
	if isNil(entity) {
		return NotFound(kind + " not found")
	}
	if entity.OwnerGroup() != groupID {
		return AccessDenied("access denied to this " + kind)
	}
	return nil
}

func isNil[T GroupScoped](entity T) bool {
	// GroupScoped is always implemented on pointer types here.
	var zero T
	return any(entity) == any(zero)
}

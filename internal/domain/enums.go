package domain

// Closed string sets used across the API. Values arrive as strings over the
// wire; Parse* rejects anything outside the set before it reaches a store.

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func ParseRole(s string) (Role, *Error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", Invalidf("role must be owner, admin, or member, got %q", s)
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, *Error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", Invalidf("priority must be low, medium, or high, got %q", s)
}

type ListStatus string

const (
	ListStatusDraft     ListStatus = "draft"
	ListStatusActive    ListStatus = "active"
	ListStatusCompleted ListStatus = "completed"
	ListStatusCancelled ListStatus = "cancelled"
)

func ParseListStatus(s string) (ListStatus, *Error) {
	switch ListStatus(s) {
	case ListStatusDraft, ListStatusActive, ListStatusCompleted, ListStatusCancelled:
		return ListStatus(s), nil
	}
	return "", Invalidf("status must be draft, active, completed, or cancelled, got %q", s)
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

func ParseMealType(s string) (MealType, *Error) {
	switch MealType(s) {
	case MealBreakfast, MealLunch, MealDinner:
		return MealType(s), nil
	}
	return "", Invalidf("meal type must be breakfast, lunch, or dinner, got %q", s)
}

type UnitKind string

const (
	UnitWeight UnitKind = "weight"
	UnitVolume UnitKind = "volume"
	UnitCount  UnitKind = "count"
	UnitLength UnitKind = "length"
)

func ParseUnitKind(s string) (UnitKind, *Error) {
	switch UnitKind(s) {
	case UnitWeight, UnitVolume, UnitCount, UnitLength:
		return UnitKind(s), nil
	}
	return "", Invalidf("unit type must be weight, volume, count, or length, got %q", s)
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func ParseDifficulty(s string) (Difficulty, *Error) {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s), nil
	}
	return "", Invalidf("difficulty must be easy, medium, or hard, got %q", s)
}

type FridgeLocation string

const (
	LocationFridge  FridgeLocation = "fridge"
	LocationFreezer FridgeLocation = "freezer"
	LocationPantry  FridgeLocation = "pantry"
)

func ParseFridgeLocation(s string) (FridgeLocation, *Error) {
	switch FridgeLocation(s) {
	case LocationFridge, LocationFreezer, LocationPantry:
		return FridgeLocation(s), nil
	}
	return "", Invalidf("location must be fridge, freezer, or pantry, got %q", s)
}

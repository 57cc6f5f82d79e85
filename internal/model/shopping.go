package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingList.TotalCost is derived: it is recomputed from the list's tasks
// on every task mutation and is never written directly by callers.
type ShoppingList struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Description      *string          `json:"description"`
	GroupID          int64            `json:"group_id"`
	AssignToUserID   *int64           `json:"assign_to_user_id"`
	AssignToUsername *string          `json:"assign_to_username,omitempty"`
	DueDate          *string          `json:"due_date"`
	Priority         string           `json:"priority"`
	Status           string           `json:"status"`
	Budget           *decimal.Decimal `json:"budget"`
	TotalCost        decimal.Decimal  `json:"total_cost"`
	IsArchived       bool             `json:"is_archived"`
	CreatedBy        int64            `json:"created_by"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

func (l *ShoppingList) OwnerGroup() int64 { return l.GroupID }

type ShoppingTask struct {
	ID            int64            `json:"id"`
	ListID        int64            `json:"list_id"`
	FoodID        int64            `json:"food_id"`
	FoodName      string           `json:"food_name,omitempty"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitID        *int64           `json:"unit_id"`
	UnitName      *string          `json:"unit_name,omitempty"`
	Note          *string          `json:"note"`
	EstimatedCost *decimal.Decimal `json:"estimated_cost"`
	ActualCost    *decimal.Decimal `json:"actual_cost"`
	Priority      string           `json:"priority"`
	IsDone        bool             `json:"is_done"`
	DoneAt        *time.Time       `json:"done_at"`
	DoneBy        *int64           `json:"done_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type MealPlan struct {
	ID          int64            `json:"id"`
	FoodID      int64            `json:"food_id"`
	FoodName    string           `json:"food_name,omitempty"`
	GroupID     int64            `json:"group_id"`
	MealType    string           `json:"meal_type"`
	MealDate    string           `json:"meal_date"`
	ServingSize *decimal.Decimal `json:"serving_size"`
	UnitID      *int64           `json:"unit_id"`
	UnitName    *string          `json:"unit_name,omitempty"`
	Note        *string          `json:"note"`
	IsPrepared  bool             `json:"is_prepared"`
	PreparedAt  *time.Time       `json:"prepared_at"`
	CreatedBy   int64            `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (m *MealPlan) OwnerGroup() int64 { return m.GroupID }

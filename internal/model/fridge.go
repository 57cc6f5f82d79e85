package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type FridgeItem struct {
	ID            int64            `json:"id"`
	FoodID        int64            `json:"food_id"`
	FoodName      string           `json:"food_name,omitempty"`
	GroupID       int64            `json:"group_id"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitID        *int64           `json:"unit_id"`
	UnitName      *string          `json:"unit_name,omitempty"`
	Note          *string          `json:"note"`
	PurchaseDate  *string          `json:"purchase_date"`
	UseWithinDate string           `json:"use_within_date"`
	Location      *string          `json:"location"`
	IsOpened      bool             `json:"is_opened"`
	OpenedAt      *time.Time       `json:"opened_at"`
	Cost          *decimal.Decimal `json:"cost"`
	CreatedBy     int64            `json:"created_by"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (f *FridgeItem) OwnerGroup() int64 { return f.GroupID }

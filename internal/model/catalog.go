package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type Unit struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Type             string           `json:"type"`
	BaseUnitID       *int64           `json:"base_unit_id"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Food is a group-scoped catalog entry. Category and unit names are
// denormalized copies kept alongside the foreign keys for display.
type Food struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          *string   `json:"description"`
	CategoryID           *int64    `json:"category_id"`
	CategoryName         *string   `json:"category_name"`
	UnitID               *int64    `json:"unit_id"`
	UnitName             *string   `json:"unit_name"`
	ImageURL             *string   `json:"image_url"`
	Brand                *string   `json:"brand"`
	DefaultShelfLifeDays *int      `json:"default_shelf_life_days"`
	StorageInstructions  *string   `json:"storage_instructions"`
	GroupID              int64     `json:"group_id"`
	IsActive             bool      `json:"is_active"`
	CreatedBy            int64     `json:"created_by"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (f *Food) OwnerGroup() int64 { return f.GroupID }

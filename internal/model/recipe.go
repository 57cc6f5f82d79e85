package model

import "time"

type Recipe struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	HTMLContent     string    `json:"html_content"`
	FoodID          *int64    `json:"food_id"`
	GroupID         int64     `json:"group_id"`
	PrepTimeMinutes *int      `json:"prep_time_minutes"`
	CookTimeMinutes *int      `json:"cook_time_minutes"`
	Servings        *int      `json:"servings"`
	Difficulty      *string   `json:"difficulty"`
	ImageURL        *string   `json:"image_url"`
	IsPublic        bool      `json:"is_public"`
	CreatedBy       int64     `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (r *Recipe) OwnerGroup() int64 { return r.GroupID }

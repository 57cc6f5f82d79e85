package model

import "time"

type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	Name          string     `json:"name"`
	Username      *string    `json:"username"`
	Language      string     `json:"language"`
	Gender        *string    `json:"gender"`
	CountryCode   *string    `json:"country_code"`
	Timezone      int        `json:"timezone"`
	BirthDate     *string    `json:"birth_date"`
	PhotoURL      *string    `json:"photo_url"`
	DeviceID      *string    `json:"-"`
	IsActivated   bool       `json:"is_activated"`
	IsVerified    bool       `json:"is_verified"`
	ActiveGroupID *int64     `json:"active_group_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

package model

import "time"

type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	InviteCode  string    `json:"invite_code"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GroupMember struct {
	ID       int64      `json:"id"`
	GroupID  int64      `json:"group_id"`
	UserID   int64      `json:"user_id"`
	Role     string     `json:"role"`
	IsActive bool       `json:"is_active"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at"`
}

package model

import "time"

type VerificationCode struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Code      string    `json:"-"`
	Purpose   string    `json:"purpose"`
	Attempts  int       `json:"attempts"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

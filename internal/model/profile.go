package model

import (
	"time"
)

// Profile is one person in the household whose medications are tracked.
type Profile struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	PinHash   string    `db:"pin_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateProfileRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Pin  string `json:"pin" binding:"required,min=4,max=32"`
}

type LoginRequest struct {
	ProfileID int64  `json:"profile_id" binding:"required"`
	Pin       string `json:"pin" binding:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	ProfileID   int64     `json:"profile_id"`
}

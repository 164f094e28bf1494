package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        string    `json:"id" db:"id" example:"0b9f7c1e-3f0e-4c55-9d1b-5f7c2b0c8e11"`
	Name      string    `json:"name" db:"name" example:"Ada Lovelace"`
	Email     string    `json:"email" db:"email" example:"ada@uni.edu"`
	Password  string    `json:"-" db:"password_hash"`
	Role      RoleType  `json:"role" db:"role" example:"student"`
	Bio       *string   `json:"bio,omitempty" db:"bio"`
	AvatarURL *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

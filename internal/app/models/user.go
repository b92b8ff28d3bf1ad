package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	UserID       string     `json:"userId" db:"user_id" example:"U001"`
	Name         string     `json:"name" db:"name" example:"Jane Doe"`
	Email        string     `json:"email" db:"email" example:"jane@school.edu"`
	Username     string     `json:"username" db:"username" example:"jdoe"`
	Role         Role       `json:"role" db:"role" example:"counselor"`
	PasswordHash string     `json:"-" db:"password_hash"`
	IsActive     bool       `json:"isActive" db:"is_active" example:"true"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

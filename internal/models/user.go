package models

import "time"

// User represents a registered author
type User struct {
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // registration time
	Username     string    `json:"username" db:"username"`     // unique, non-empty
	PasswordHash string    `json:"-" db:"password_hash"`       // bcrypt hash, never serialized
	ID           int64     `json:"id" db:"id"`                 // stable numeric id
}

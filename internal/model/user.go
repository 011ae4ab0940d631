package model

import "time"

// User is an account attached to a fixpoint. Only the bcrypt hash of the
// password is stored.
type User struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:256;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	FixpointID   *int64    `gorm:"index" json:"fixpoint_id"`
	CreatedAt    time.Time `json:"created_at"`
}

package model

import "time"

// Fixpoint is a physical repair-shop location.
type Fixpoint struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	City      string    `gorm:"size:128;not null;index" json:"city"`
	Address   string    `gorm:"size:256" json:"address"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Email     string    `gorm:"size:256" json:"email"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

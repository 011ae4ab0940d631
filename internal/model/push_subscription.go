package model

import "time"

// PushSubscription holds the information for a browser push subscription
// owned by a fixpoint.
type PushSubscription struct {
	Endpoint   string    `gorm:"primaryKey" json:"endpoint"`
	P256DH     string    `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth       string    `gorm:"not null" json:"auth"`
	FixpointID int64     `gorm:"index;not null" json:"fixpoint_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

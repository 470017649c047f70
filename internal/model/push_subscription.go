package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription belongs to the user who registered it; order notifications
// are routed by UserID.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	UserID    string    `gorm:"size:36;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

package model

import "time"

// SeedMarker records that a named seed batch has already been applied.
// It lives in the same database as the data it seeds so the flag and
// the records cannot drift apart.
type SeedMarker struct {
	Name      string    `gorm:"primaryKey;size:64"`
	AppliedAt time.Time `gorm:"not null"`
}

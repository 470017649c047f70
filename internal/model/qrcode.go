package model

import "time"

// QRStatus is the lifecycle state of a physical bag code.
type QRStatus string

const (
	QRAvailable QRStatus = "available"
	QRAssigned  QRStatus = "assigned"
	QRVerified  QRStatus = "verified"
	QRInUse     QRStatus = "in-use"
)

// QRCode represents a scannable bag code. Assignment fields are set
// exactly while the status is not available.
type QRCode struct {
	ID     string   `gorm:"primaryKey;size:36"`
	Code   string   `gorm:"uniqueIndex;size:64;not null"`
	Status QRStatus `gorm:"size:16;not null;index"`

	AssignedTo     string     `gorm:"size:36;index"`
	AssignedToName string     `gorm:"size:128"`
	AssignedBy     string     `gorm:"size:36"`
	AssignedByName string     `gorm:"size:128"`
	AssignedAt     *time.Time
	MachineID      string `gorm:"size:36"`
	MachineName    string `gorm:"size:128"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

package model

import "time"

// MachineType distinguishes washers from dryers.
type MachineType string

const (
	MachineWasher MachineType = "washer"
	MachineDryer  MachineType = "dryer"
)

// MachineStatus is the availability state of a machine.
type MachineStatus string

const (
	MachineAvailable MachineStatus = "available"
	MachineInUse     MachineStatus = "in-use"
)

// Machine represents a washer or dryer. An in-use machine references
// the bag code of exactly one active order via CurrentQR.
type Machine struct {
	ID          string        `gorm:"primaryKey;size:36"`
	Name        string        `gorm:"size:128;not null"`
	Type        MachineType   `gorm:"size:16;not null"`
	Status      MachineStatus `gorm:"size:16;not null;index"`
	CurrentQR   string        `gorm:"size:64"`
	LastUpdated time.Time     `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

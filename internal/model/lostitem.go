package model

import "time"

// LostStatus is the lifecycle state of a lost-and-found item.
type LostStatus string

const (
	LostReported LostStatus = "reported"
	LostFound    LostStatus = "found"
	LostApproved LostStatus = "approved"
	LostRejected LostStatus = "rejected"
	LostClaimed  LostStatus = "claimed"
	LostReturned LostStatus = "returned"
)

// LostItem represents a lost-and-found report. Claim fields are set
// exactly while the status is claimed or a later state reached through
// claimed.
type LostItem struct {
	ID             string     `gorm:"primaryKey;size:36"`
	Description    string     `gorm:"type:text;not null"`
	ReportedBy     string     `gorm:"size:36;not null;index"`
	ReportedByName string     `gorm:"size:128;not null"`
	Status         LostStatus `gorm:"size:16;not null;index"`
	Hostel         string     `gorm:"size:64;index"`
	Visible        bool       `gorm:"not null"`
	Photo          string     `gorm:"type:text"`
	Priority       string     `gorm:"size:16"`

	ClaimedBy     string `gorm:"size:36"`
	ClaimedByName string `gorm:"size:128"`
	ClaimedAt     *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

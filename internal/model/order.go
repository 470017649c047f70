package model

import "time"

// OrderStatus is the lifecycle state of a laundry order.
type OrderStatus string

const (
	OrderSubmitted OrderStatus = "submitted"
	OrderPickedUp  OrderStatus = "picked-up"
	OrderWashing   OrderStatus = "washing"
	OrderDrying    OrderStatus = "drying"
	OrderReady     OrderStatus = "ready"
	OrderDelivered OrderStatus = "delivered"
)

// LaundryOrder represents one bag dropped off by a student. Each state
// past submitted stamps exactly one of the timestamp pointers below.
type LaundryOrder struct {
	ID          string `gorm:"primaryKey;size:36"`
	StudentID   string `gorm:"size:36;not null;index"`
	StudentName string `gorm:"size:128;not null"`
	QRCode      string `gorm:"size:64;not null;index"`
	BagQRCode   string `gorm:"size:64"`
	Items       string `gorm:"type:text;not null"`

	Status      OrderStatus `gorm:"size:16;not null;index"`
	SubmittedAt time.Time   `gorm:"not null"`

	PickedUpAt       *time.Time
	WashingStartedAt *time.Time
	DryingStartedAt  *time.Time
	ReadyAt          *time.Time
	DeliveredAt      *time.Time

	OperatorID   string `gorm:"size:36"`
	OperatorName string `gorm:"size:128"`
	MachineID    string `gorm:"size:36"`
	MachineName  string `gorm:"size:128"`

	SpecialInstructions string `gorm:"type:text"`
	StudentNotes        string `gorm:"type:text"`
	BagPhoto            string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// StatusTimestamp returns the stamped time for a given state, or nil
// if the order has not entered it.
func (o *LaundryOrder) StatusTimestamp(s OrderStatus) *time.Time {
	switch s {
	case OrderSubmitted:
		t := o.SubmittedAt
		return &t
	case OrderPickedUp:
		return o.PickedUpAt
	case OrderWashing:
		return o.WashingStartedAt
	case OrderDrying:
		return o.DryingStartedAt
	case OrderReady:
		return o.ReadyAt
	case OrderDelivered:
		return o.DeliveredAt
	}
	return nil
}

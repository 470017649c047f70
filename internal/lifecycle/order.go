package lifecycle

import (
	"time"

	"laundryhub-backend/internal/model"
)

// orderChain is the strict order of laundry states. Each state is
// entered at most once and only from its immediate predecessor.
var orderChain = []model.OrderStatus{
	model.OrderSubmitted,
	model.OrderPickedUp,
	model.OrderWashing,
	model.OrderDrying,
	model.OrderReady,
	model.OrderDelivered,
}

// orderIndex maps a status to its position in the chain, or -1.
func orderIndex(s model.OrderStatus) int {
	for i, st := range orderChain {
		if st == s {
			return i
		}
	}
	return -1
}

// NextOrderStatus returns the successor of s, or "" if s is terminal
// or unknown.
func NextOrderStatus(s model.OrderStatus) model.OrderStatus {
	i := orderIndex(s)
	if i < 0 || i == len(orderChain)-1 {
		return ""
	}
	return orderChain[i+1]
}

// ValidateOrderTransition rejects any move that is not a single step
// forward along the chain. Delivered is terminal.
func ValidateOrderTransition(from, to model.OrderStatus) error {
	fi, ti := orderIndex(from), orderIndex(to)
	if fi < 0 || ti < 0 || ti != fi+1 {
		return &InvalidTransitionError{Entity: "order", From: string(from), To: string(to)}
	}
	return nil
}

// OrderTimestampColumn names the single column stamped when an order
// enters the given state. Submitted is stamped at creation, not by a
// transition.
func OrderTimestampColumn(s model.OrderStatus) string {
	switch s {
	case model.OrderPickedUp:
		return "picked_up_at"
	case model.OrderWashing:
		return "washing_started_at"
	case model.OrderDrying:
		return "drying_started_at"
	case model.OrderReady:
		return "ready_at"
	case model.OrderDelivered:
		return "delivered_at"
	}
	return ""
}

// ClampOrderTimestamp keeps transition timestamps non-decreasing in
// state order even when the caller's clock reads behind the previous
// stamp.
func ClampOrderTimestamp(now time.Time, prev *time.Time) time.Time {
	if prev != nil && now.Before(*prev) {
		return *prev
	}
	return now
}

// ValidateNewOrder checks the inputs required to create an order in the
// submitted state.
func ValidateNewOrder(studentID, qrCode, items string) error {
	if studentID == "" {
		return &ValidationError{Field: "studentId", Reason: "required"}
	}
	if qrCode == "" {
		return &ValidationError{Field: "qrCode", Reason: "required"}
	}
	if items == "" {
		return &ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	return nil
}

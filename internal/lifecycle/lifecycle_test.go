package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"laundryhub-backend/internal/model"
)

func TestValidateOrderTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    model.OrderStatus
		to      model.OrderStatus
		allowed bool
	}{
		{"submitted to picked-up", model.OrderSubmitted, model.OrderPickedUp, true},
		{"picked-up to washing", model.OrderPickedUp, model.OrderWashing, true},
		{"washing to drying", model.OrderWashing, model.OrderDrying, true},
		{"drying to ready", model.OrderDrying, model.OrderReady, true},
		{"ready to delivered", model.OrderReady, model.OrderDelivered, true},
		{"skip a state", model.OrderSubmitted, model.OrderWashing, false},
		{"skip two states", model.OrderPickedUp, model.OrderReady, false},
		{"backward", model.OrderWashing, model.OrderPickedUp, false},
		{"same state", model.OrderDrying, model.OrderDrying, false},
		{"from terminal", model.OrderDelivered, model.OrderSubmitted, false},
		{"anything after delivered", model.OrderDelivered, model.OrderPickedUp, false},
		{"unknown target", model.OrderSubmitted, model.OrderStatus("folded"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOrderTransition(tc.from, tc.to)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				var ite *InvalidTransitionError
				assert.ErrorAs(t, err, &ite)
				assert.Equal(t, "order", ite.Entity)
			}
		})
	}
}

func TestNextOrderStatus(t *testing.T) {
	assert.Equal(t, model.OrderPickedUp, NextOrderStatus(model.OrderSubmitted))
	assert.Equal(t, model.OrderDelivered, NextOrderStatus(model.OrderReady))
	assert.Equal(t, model.OrderStatus(""), NextOrderStatus(model.OrderDelivered))
	assert.Equal(t, model.OrderStatus(""), NextOrderStatus(model.OrderStatus("bogus")))
}

func TestOrderTimestampColumn(t *testing.T) {
	assert.Equal(t, "picked_up_at", OrderTimestampColumn(model.OrderPickedUp))
	assert.Equal(t, "washing_started_at", OrderTimestampColumn(model.OrderWashing))
	assert.Equal(t, "delivered_at", OrderTimestampColumn(model.OrderDelivered))
	// Submitted is stamped at creation, never by a transition.
	assert.Equal(t, "", OrderTimestampColumn(model.OrderSubmitted))
}

func TestClampOrderTimestamp(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := base.Add(10 * time.Minute)
	earlier := base.Add(-10 * time.Minute)

	assert.Equal(t, later, ClampOrderTimestamp(later, &base))
	// A clock reading behind the previous stamp never produces a
	// decreasing sequence.
	assert.Equal(t, base, ClampOrderTimestamp(earlier, &base))
	assert.Equal(t, earlier, ClampOrderTimestamp(earlier, nil))
}

func TestValidateNewOrder(t *testing.T) {
	assert.NoError(t, ValidateNewOrder("student_001", "QR-2024-001", "2 shirts, 1 jeans"))

	var ve *ValidationError
	err := ValidateNewOrder("", "QR-2024-001", "socks")
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "studentId", ve.Field)

	err = ValidateNewOrder("student_001", "QR-2024-001", "")
	assert.ErrorAs(t, err, &ve)
	assert.Equal(t, "items", ve.Field)
}

func TestValidateQRTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    model.QRStatus
		to      model.QRStatus
		allowed bool
	}{
		{"available to assigned", model.QRAvailable, model.QRAssigned, true},
		{"assigned to verified", model.QRAssigned, model.QRVerified, true},
		{"verified to in-use", model.QRVerified, model.QRInUse, true},
		{"release after delivery", model.QRInUse, model.QRAvailable, true},
		{"assigned directly to in-use", model.QRAssigned, model.QRInUse, false},
		{"available to verified", model.QRAvailable, model.QRVerified, false},
		{"backward", model.QRVerified, model.QRAssigned, false},
		{"release before in-use", model.QRAssigned, model.QRAvailable, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateQRTransition(tc.from, tc.to)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				var ite *InvalidTransitionError
				assert.ErrorAs(t, err, &ite)
			}
		})
	}
}

func TestCheckQRAssignment(t *testing.T) {
	now := time.Now()

	available := &model.QRCode{Code: "QR-2024-001", Status: model.QRAvailable}
	assert.True(t, CheckQRAssignment(available))

	assigned := &model.QRCode{
		Code: "QR-2024-002", Status: model.QRAssigned,
		AssignedTo: "student_002", AssignedAt: &now,
	}
	assert.True(t, CheckQRAssignment(assigned))

	// Assignment fields on an available code violate the invariant,
	// as does a non-available code with no assignee.
	assert.False(t, CheckQRAssignment(&model.QRCode{Status: model.QRAvailable, AssignedTo: "student_002", AssignedAt: &now}))
	assert.False(t, CheckQRAssignment(&model.QRCode{Status: model.QRVerified}))
}

func TestValidateLostTransition(t *testing.T) {
	testCases := []struct {
		name    string
		from    model.LostStatus
		to      model.LostStatus
		allowed bool
	}{
		{"reported claimed directly", model.LostReported, model.LostClaimed, true},
		{"found claimed directly", model.LostFound, model.LostClaimed, true},
		{"reported approved", model.LostReported, model.LostApproved, true},
		{"found rejected", model.LostFound, model.LostRejected, true},
		{"approved claimed", model.LostApproved, model.LostClaimed, true},
		{"approved returned", model.LostApproved, model.LostReturned, true},
		{"claimed returned", model.LostClaimed, model.LostReturned, true},
		{"rejected is terminal", model.LostRejected, model.LostClaimed, false},
		{"returned is terminal", model.LostReturned, model.LostClaimed, false},
		{"claimed cannot be re-approved", model.LostClaimed, model.LostApproved, false},
		{"no backward to entry", model.LostApproved, model.LostReported, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLostTransition(tc.from, tc.to)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCanClaim(t *testing.T) {
	assert.True(t, CanClaim(model.LostReported))
	assert.True(t, CanClaim(model.LostFound))
	assert.True(t, CanClaim(model.LostApproved))
	assert.False(t, CanClaim(model.LostClaimed))
	assert.False(t, CanClaim(model.LostRejected))
}

func TestValidateNewLostItem(t *testing.T) {
	assert.NoError(t, ValidateNewLostItem("blue backpack", "student_001", model.LostReported))
	assert.NoError(t, ValidateNewLostItem("single sock", "operator_001", model.LostFound))

	var ve *ValidationError
	assert.ErrorAs(t, ValidateNewLostItem("", "student_001", model.LostReported), &ve)
	assert.ErrorAs(t, ValidateNewLostItem("blue backpack", "student_001", model.LostClaimed), &ve)
}

func TestCheckLostClaim(t *testing.T) {
	now := time.Now()
	assert.True(t, CheckLostClaim(&model.LostItem{Status: model.LostFound}))
	assert.True(t, CheckLostClaim(&model.LostItem{
		Status: model.LostClaimed, ClaimedBy: "student_001", ClaimedAt: &now,
	}))
	assert.False(t, CheckLostClaim(&model.LostItem{Status: model.LostClaimed}))
	assert.False(t, CheckLostClaim(&model.LostItem{Status: model.LostReported, ClaimedBy: "student_001", ClaimedAt: &now}))
}

func TestErrorMessages(t *testing.T) {
	err := ValidateOrderTransition(model.OrderSubmitted, model.OrderDrying)
	assert.EqualError(t, err, "invalid order transition: submitted -> drying")

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))

	verr := &ValidationError{Field: "description", Reason: "required"}
	assert.EqualError(t, verr, "validation failed on description: required")
}

package lifecycle

import "laundryhub-backend/internal/model"

// qrChain is the forward-only order of bag code states. A delivered
// order releases its code back to available with the assignment cleared;
// that release is the only move that is not a step along this chain.
var qrChain = []model.QRStatus{
	model.QRAvailable,
	model.QRAssigned,
	model.QRVerified,
	model.QRInUse,
}

func qrIndex(s model.QRStatus) int {
	for i, st := range qrChain {
		if st == s {
			return i
		}
	}
	return -1
}

// ValidateQRTransition rejects any move that is not a single step
// forward along the chain, except the release in-use -> available.
func ValidateQRTransition(from, to model.QRStatus) error {
	if from == model.QRInUse && to == model.QRAvailable {
		return nil
	}
	fi, ti := qrIndex(from), qrIndex(to)
	if fi < 0 || ti < 0 || ti != fi+1 {
		return &InvalidTransitionError{Entity: "qrcode", From: string(from), To: string(to)}
	}
	return nil
}

// CheckQRAssignment verifies the invariant that assignment fields are
// populated exactly when the code is not available.
func CheckQRAssignment(q *model.QRCode) bool {
	if q.Status == model.QRAvailable {
		return q.AssignedTo == "" && q.AssignedAt == nil
	}
	return q.AssignedTo != "" && q.AssignedAt != nil
}

package lifecycle

import "laundryhub-backend/internal/model"

// lostTransitions enumerates the allowed lost-and-found moves. Both
// entry states may be claimed directly by front-line staff; the
// approved/rejected/returned path is the separate administrative audit.
var lostTransitions = map[model.LostStatus][]model.LostStatus{
	model.LostReported: {model.LostClaimed, model.LostApproved, model.LostRejected},
	model.LostFound:    {model.LostClaimed, model.LostApproved, model.LostRejected},
	model.LostApproved: {model.LostClaimed, model.LostReturned},
	model.LostClaimed:  {model.LostReturned},
}

// ValidateLostTransition rejects moves not listed above. Rejected and
// returned are terminal.
func ValidateLostTransition(from, to model.LostStatus) error {
	for _, allowed := range lostTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "lostitem", From: string(from), To: string(to)}
}

// CanClaim reports whether an item in the given state may be marked
// claimed.
func CanClaim(s model.LostStatus) bool {
	return ValidateLostTransition(s, model.LostClaimed) == nil
}

// ValidateNewLostItem checks the inputs required to file a report.
// Operators file with the found entry state, students with reported.
func ValidateNewLostItem(description, reportedBy string, entry model.LostStatus) error {
	if description == "" {
		return &ValidationError{Field: "description", Reason: "required"}
	}
	if reportedBy == "" {
		return &ValidationError{Field: "reportedBy", Reason: "required"}
	}
	if entry != model.LostReported && entry != model.LostFound {
		return &ValidationError{Field: "status", Reason: "entry state must be reported or found"}
	}
	return nil
}

// CheckLostClaim verifies the invariant that claim fields are populated
// exactly when the item is claimed or was returned through a claim.
func CheckLostClaim(it *model.LostItem) bool {
	if it.Status == model.LostClaimed {
		return it.ClaimedBy != "" && it.ClaimedAt != nil
	}
	if it.Status == model.LostReturned {
		return true // a return may follow a claim or an approved hand-back
	}
	return it.ClaimedBy == "" && it.ClaimedAt == nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"laundryhub-backend/internal/lifecycle"
	"laundryhub-backend/internal/model"
	"laundryhub-backend/internal/search"
)

// CreateQRCodes mints a batch of available codes.
func (s *gormStore) CreateQRCodes(ctx context.Context, codes []string) ([]model.QRCode, error) {
	if len(codes) == 0 {
		return nil, &lifecycle.ValidationError{Field: "codes", Reason: "at least one code is required"}
	}

	records := make([]model.QRCode, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			return nil, &lifecycle.ValidationError{Field: "codes", Reason: "code strings must be non-empty"}
		}
		records = append(records, model.QRCode{
			ID:     uuid.NewString(),
			Code:   code,
			Status: model.QRAvailable,
		})
	}

	if err := s.db.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to create qr codes: %w", err)
	}
	for _, r := range records {
		s.feed.Publish(Event{Collection: CollectionQRCodes, Action: ActionCreated, ID: r.ID})
	}
	return records, nil
}

// QRCodeByCode fetches a single code by its scannable string.
func (s *gormStore) QRCodeByCode(ctx context.Context, code string) (*model.QRCode, error) {
	var qr model.QRCode
	if err := s.db.WithContext(ctx).First(&qr, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &qr, nil
}

// ListQRCodes returns all codes with substring search over the code
// string and the assignee name.
func (s *gormStore) ListQRCodes(ctx context.Context, term string) ([]model.QRCode, error) {
	var codes []model.QRCode
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&codes).Error; err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	return search.Filter(codes, term, func(q model.QRCode) []string {
		return []string{q.Code, q.AssignedToName}
	}), nil
}

// AssignQRCode binds an available code to a student. The write is
// conditional on the status the precondition check saw.
func (s *gormStore) AssignQRCode(ctx context.Context, code string, student, operator *model.User, now time.Time) (*model.QRCode, error) {
	if student == nil || student.ID == "" {
		return nil, &lifecycle.ValidationError{Field: "student", Reason: "required"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	return s.transitionQR(ctx, code, model.QRAvailable, model.QRAssigned, map[string]any{
		"assigned_to":      student.ID,
		"assigned_to_name": student.Name,
		"assigned_by":      operatorID(operator),
		"assigned_by_name": operatorName(operator),
		"assigned_at":      now,
	})
}

// VerifyQRCode confirms the bag contents match the declared item list.
func (s *gormStore) VerifyQRCode(ctx context.Context, code string) (*model.QRCode, error) {
	return s.transitionQR(ctx, code, model.QRAssigned, model.QRVerified, nil)
}

// transitionQR applies a single validated step to a code. Zero rows
// affected means the precondition no longer holds, so the latest row is
// re-read to report the actual conflicting status.
func (s *gormStore) transitionQR(ctx context.Context, code string, from, to model.QRStatus, extra map[string]any) (*model.QRCode, error) {
	if err := lifecycle.ValidateQRTransition(from, to); err != nil {
		return nil, err
	}

	var out model.QRCode
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": to}
		for k, v := range extra {
			updates[k] = v
		}

		res := tx.Model(&model.QRCode{}).
			Where("code = ? AND status = ?", code, from).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update qr code %s: %w", code, res.Error)
		}
		if res.RowsAffected == 0 {
			var current model.QRCode
			if err := tx.First(&current, "code = ?", code).Error; err != nil {
				return err
			}
			return &lifecycle.InvalidTransitionError{Entity: "qrcode", From: string(current.Status), To: string(to)}
		}
		return tx.First(&out, "code = ?", code).Error
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(Event{Collection: CollectionQRCodes, Action: ActionUpdated, ID: out.ID})
	return &out, nil
}

// markQRInUse moves a verified code to in-use when a machine starts on
// its bag. Runs inside the order transition's transaction.
func markQRInUse(tx *gorm.DB, code string, machine machineRef) error {
	res := tx.Model(&model.QRCode{}).
		Where("code = ? AND status = ?", code, model.QRVerified).
		Updates(map[string]any{
			"status":       model.QRInUse,
			"machine_id":   machine.ID,
			"machine_name": machine.Name,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark qr code %s in-use: %w", code, res.Error)
	}
	if res.RowsAffected == 0 {
		var current model.QRCode
		if err := tx.First(&current, "code = ?", code).Error; err != nil {
			return err
		}
		return &lifecycle.InvalidTransitionError{Entity: "qrcode", From: string(current.Status), To: string(model.QRInUse)}
	}
	return nil
}

// releaseQRCode returns a code to the pool after its order is
// delivered, clearing the assignment so the available-state invariant
// holds. Runs inside the order transition's transaction.
func releaseQRCode(tx *gorm.DB, code string) error {
	err := tx.Model(&model.QRCode{}).
		Where("code = ?", code).
		Updates(map[string]any{
			"status":           model.QRAvailable,
			"assigned_to":      "",
			"assigned_to_name": "",
			"assigned_by":      "",
			"assigned_by_name": "",
			"assigned_at":      nil,
			"machine_id":       "",
			"machine_name":     "",
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release qr code %s: %w", code, err)
	}
	return nil
}

func operatorID(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.ID
}

func operatorName(u *model.User) string {
	if u == nil {
		return ""
	}
	return u.Name
}

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

// CreateLostItem files a report. Students enter at reported, operators
// at found; anything else is rejected before the write.
func (s *gormStore) CreateLostItem(ctx context.Context, it *model.LostItem) error {
	if err := lifecycle.ValidateNewLostItem(it.Description, it.ReportedBy, it.Status); err != nil {
		return err
	}

	it.ID = uuid.NewString()
	it.Visible = true

	if err := s.db.WithContext(ctx).Create(it).Error; err != nil {
		return fmt.Errorf("failed to create lost item: %w", err)
	}
	s.feed.Publish(Event{Collection: CollectionLostItems, Action: ActionCreated, ID: it.ID})
	return nil
}

// LostItemByID fetches a single item.
func (s *gormStore) LostItemByID(ctx context.Context, id string) (*model.LostItem, error) {
	var it model.LostItem
	if err := s.db.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

// ListLostItems returns items newest-first with hostel and visibility
// scoping and substring search over the description.
func (s *gormStore) ListLostItems(ctx context.Context, f LostFilter) ([]model.LostItem, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if f.Hostel != "" {
		q = q.Where("hostel = ?", f.Hostel)
	}
	if f.VisibleOnly {
		q = q.Where("visible = ?", true)
	}

	var items []model.LostItem
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list lost items: %w", err)
	}

	return search.Filter(items, f.Search, func(it model.LostItem) []string {
		return []string{it.Description}
	}), nil
}

// ClaimLostItem marks an item claimed by a student. Allowed directly
// from either entry state or from approved; the write is conditional on
// the status the precondition check saw.
func (s *gormStore) ClaimLostItem(ctx context.Context, id string, claimant *model.User, now time.Time) (*model.LostItem, error) {
	if claimant == nil || claimant.ID == "" {
		return nil, &lifecycle.ValidationError{Field: "claimedBy", Reason: "required"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var out model.LostItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it model.LostItem
		if err := tx.First(&it, "id = ?", id).Error; err != nil {
			return err
		}
		if err := lifecycle.ValidateLostTransition(it.Status, model.LostClaimed); err != nil {
			return err
		}

		res := tx.Model(&model.LostItem{}).
			Where("id = ? AND status = ?", id, it.Status).
			Updates(map[string]any{
				"status":          model.LostClaimed,
				"claimed_by":      claimant.ID,
				"claimed_by_name": claimant.Name,
				"claimed_at":      now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to claim lost item %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &lifecycle.InvalidTransitionError{Entity: "lostitem", From: string(it.Status), To: string(model.LostClaimed)}
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(Event{Collection: CollectionLostItems, Action: ActionUpdated, ID: id})
	return &out, nil
}

// ModerateLostItem applies an administrative transition: approve,
// reject, or mark returned.
func (s *gormStore) ModerateLostItem(ctx context.Context, id string, to model.LostStatus) (*model.LostItem, error) {
	switch to {
	case model.LostApproved, model.LostRejected, model.LostReturned:
	default:
		return nil, &lifecycle.ValidationError{Field: "status", Reason: "moderation may only approve, reject, or return"}
	}

	var out model.LostItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it model.LostItem
		if err := tx.First(&it, "id = ?", id).Error; err != nil {
			return err
		}
		if err := lifecycle.ValidateLostTransition(it.Status, to); err != nil {
			return err
		}

		res := tx.Model(&model.LostItem{}).
			Where("id = ? AND status = ?", id, it.Status).
			Update("status", to)
		if res.Error != nil {
			return fmt.Errorf("failed to moderate lost item %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return &lifecycle.InvalidTransitionError{Entity: "lostitem", From: string(it.Status), To: string(to)}
		}
		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(Event{Collection: CollectionLostItems, Action: ActionUpdated, ID: id})
	return &out, nil
}

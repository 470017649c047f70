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

// CreateOrder persists a new order in the submitted state. The id and
// submission timestamp are stamped here, never by the caller.
func (s *gormStore) CreateOrder(ctx context.Context, o *model.LaundryOrder) error {
	if err := lifecycle.ValidateNewOrder(o.StudentID, o.QRCode, o.Items); err != nil {
		return err
	}

	o.ID = uuid.NewString()
	o.Status = model.OrderSubmitted
	o.SubmittedAt = time.Now().UTC()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qr model.QRCode
		if err := tx.First(&qr, "code = ?", o.QRCode).Error; err != nil {
			return fmt.Errorf("failed to fetch qr code %s: %w", o.QRCode, err)
		}
		if qr.AssignedTo != o.StudentID {
			return &lifecycle.ValidationError{Field: "qrCode", Reason: "code is not assigned to this student"}
		}
		if qr.Status != model.QRAssigned && qr.Status != model.QRVerified {
			return &lifecycle.ValidationError{Field: "qrCode", Reason: "code is not ready for a new order"}
		}

		// A code carries at most one active order at a time.
		var active int64
		if err := tx.Model(&model.LaundryOrder{}).
			Where("qr_code = ? AND status <> ?", o.QRCode, model.OrderDelivered).
			Count(&active).Error; err != nil {
			return fmt.Errorf("failed to count active orders: %w", err)
		}
		if active > 0 {
			return &lifecycle.ValidationError{Field: "qrCode", Reason: "code already has an active order"}
		}

		if err := tx.Create(o).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.feed.Publish(Event{Collection: CollectionOrders, Action: ActionCreated, ID: o.ID})
	return nil
}

// OrderByID fetches a single order.
func (s *gormStore) OrderByID(ctx context.Context, id string) (*model.LaundryOrder, error) {
	var o model.LaundryOrder
	if err := s.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns orders newest-first, optionally scoped to a
// student and status, with substring search over the QR code and the
// student name.
func (s *gormStore) ListOrders(ctx context.Context, f OrderFilter) ([]model.LaundryOrder, error) {
	q := s.db.WithContext(ctx).Order("submitted_at DESC")
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var orders []model.LaundryOrder
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return search.Filter(orders, f.Search, func(o model.LaundryOrder) []string {
		return []string{o.QRCode, o.BagQRCode, o.StudentName}
	}), nil
}

// AdvanceOrder moves an order one step along its lifecycle. The
// precondition is re-validated against the latest row inside the
// transaction, and the write itself is conditional on the status the
// validation saw, so a concurrent transition loses cleanly instead of
// double-applying.
func (s *gormStore) AdvanceOrder(ctx context.Context, id string, to model.OrderStatus, opts AdvanceOptions) (*model.LaundryOrder, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}

	var out model.LaundryOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.LaundryOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}

		if err := lifecycle.ValidateOrderTransition(order.Status, to); err != nil {
			return err
		}

		col := lifecycle.OrderTimestampColumn(to)
		stamp := lifecycle.ClampOrderTimestamp(opts.Now, order.StatusTimestamp(order.Status))

		updates := map[string]any{
			"status": to,
			col:      stamp,
		}
		if opts.OperatorID != "" {
			updates["operator_id"] = opts.OperatorID
			updates["operator_name"] = opts.OperatorName
		}

		var machine *model.Machine
		if to == model.OrderWashing {
			if opts.MachineID == "" && order.MachineID == "" {
				return &lifecycle.ValidationError{Field: "machineId", Reason: "a machine must be assigned before washing"}
			}
			if opts.MachineID != "" {
				var m model.Machine
				if err := tx.First(&m, "id = ?", opts.MachineID).Error; err != nil {
					return fmt.Errorf("failed to fetch machine %s: %w", opts.MachineID, err)
				}
				machine = &m
				updates["machine_id"] = m.ID
				updates["machine_name"] = m.Name
			}
		}

		res := tx.Model(&model.LaundryOrder{}).
			Where("id = ? AND status = ?", id, order.Status).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to advance order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost a race: another writer moved the order first.
			return &lifecycle.InvalidTransitionError{Entity: "order", From: string(order.Status), To: string(to)}
		}

		bagCode := order.BagQRCode
		if bagCode == "" {
			bagCode = order.QRCode
		}

		switch to {
		case model.OrderWashing:
			if machine != nil {
				if err := occupyMachine(tx, machine.ID, bagCode, stamp); err != nil {
					return err
				}
			}
			if err := markQRInUse(tx, order.QRCode, machineLabel(machine, order)); err != nil {
				return err
			}
		case model.OrderReady:
			if order.MachineID != "" {
				if err := releaseMachine(tx, order.MachineID, stamp); err != nil {
					return err
				}
			}
		case model.OrderDelivered:
			if err := releaseQRCode(tx, order.QRCode); err != nil {
				return err
			}
		}

		return tx.First(&out, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}

	s.feed.Publish(Event{Collection: CollectionOrders, Action: ActionUpdated, ID: id})
	return &out, nil
}

// AttachBagPhoto stores the bag photo for an order at or after pickup.
// Delivered orders are final and reject any further mutation.
func (s *gormStore) AttachBagPhoto(ctx context.Context, id, photo string) error {
	if photo == "" {
		return &lifecycle.ValidationError{Field: "bagPhoto", Reason: "required"}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order model.LaundryOrder
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		if order.Status == model.OrderSubmitted {
			return &lifecycle.ValidationError{Field: "bagPhoto", Reason: "photo may only be attached at or after pickup"}
		}
		if order.Status == model.OrderDelivered {
			return &lifecycle.ValidationError{Field: "bagPhoto", Reason: "delivered orders may not be modified"}
		}
		return tx.Model(&order).Update("bag_photo", photo).Error
	})
	if err != nil {
		return err
	}

	s.feed.Publish(Event{Collection: CollectionOrders, Action: ActionUpdated, ID: id})
	return nil
}

func machineLabel(m *model.Machine, order model.LaundryOrder) machineRef {
	if m != nil {
		return machineRef{ID: m.ID, Name: m.Name}
	}
	return machineRef{ID: order.MachineID, Name: order.MachineName}
}

type machineRef struct {
	ID   string
	Name string
}

// occupyMachine marks a machine in-use for a bag. The write is
// conditional on the machine being available.
func occupyMachine(tx *gorm.DB, machineID, bagCode string, now time.Time) error {
	res := tx.Model(&model.Machine{}).
		Where("id = ? AND status = ?", machineID, model.MachineAvailable).
		Updates(map[string]any{
			"status":       model.MachineInUse,
			"current_qr":   bagCode,
			"last_updated": now,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to occupy machine %s: %w", machineID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMachineUnavailable
	}
	return nil
}

// releaseMachine frees a machine once its bag moves on.
func releaseMachine(tx *gorm.DB, machineID string, now time.Time) error {
	err := tx.Model(&model.Machine{}).
		Where("id = ?", machineID).
		Updates(map[string]any{
			"status":       model.MachineAvailable,
			"current_qr":   "",
			"last_updated": now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to release machine %s: %w", machineID, err)
	}
	return nil
}

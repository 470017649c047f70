package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"laundryhub-backend/internal/lifecycle"
	"laundryhub-backend/internal/model"
)

// CreateMachine registers a washer or dryer.
func (s *gormStore) CreateMachine(ctx context.Context, m *model.Machine) error {
	if m.Name == "" {
		return &lifecycle.ValidationError{Field: "name", Reason: "required"}
	}
	if m.Type != model.MachineWasher && m.Type != model.MachineDryer {
		return &lifecycle.ValidationError{Field: "type", Reason: "must be washer or dryer"}
	}

	m.ID = uuid.NewString()
	m.Status = model.MachineAvailable
	m.CurrentQR = ""
	m.LastUpdated = time.Now().UTC()

	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create machine: %w", err)
	}
	s.feed.Publish(Event{Collection: CollectionMachines, Action: ActionCreated, ID: m.ID})
	return nil
}

// ListMachines returns all machines ordered by name.
func (s *gormStore) ListMachines(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := s.db.WithContext(ctx).Order("name").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

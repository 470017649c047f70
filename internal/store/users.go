package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"laundryhub-backend/internal/lifecycle"
	"laundryhub-backend/internal/model"
)

// CreateUser persists a new account.
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.Email == "" {
		return &lifecycle.ValidationError{Field: "email", Reason: "required"}
	}
	if u.Name == "" {
		return &lifecycle.ValidationError{Field: "name", Reason: "required"}
	}
	if !u.Role.Valid() {
		return &lifecycle.ValidationError{Field: "role", Reason: "must be student, operator, or admin"}
	}

	u.ID = uuid.NewString()
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByID fetches a single account.
func (s *gormStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByEmail fetches an account by its login email.
func (s *gormStore) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns accounts, optionally scoped to a role.
func (s *gormStore) ListUsers(ctx context.Context, role model.Role) ([]model.User, error) {
	q := s.db.WithContext(ctx).Order("name")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserProfile applies a partial update to the profile fields the
// owning user (or an admin) may edit.
func (s *gormStore) UpdateUserProfile(ctx context.Context, id string, fields map[string]any) error {
	allowed := map[string]bool{
		"name": true, "roll_number": true, "gender": true,
		"hostel": true, "room": true, "profile_complete": true,
	}
	updates := make(map[string]any, len(fields))
	for k, v := range fields {
		if !allowed[k] {
			return &lifecycle.ValidationError{Field: k, Reason: "not an editable profile field"}
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return &lifecycle.ValidationError{Field: "profile", Reason: "no fields to update"}
	}

	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile for %s: %w", id, res.Error)
	}
	return nil
}

// Package seed applies demo/bootstrap data exactly once at startup.
// The applied flag is a row in the same database as the seeded records,
// so the gateway stays the single source of truth afterwards.
package seed

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"laundryhub-backend/internal/model"
)

// markerName identifies the bootstrap batch in the seed_markers table.
const markerName = "bootstrap"

// File is the YAML layout of a seed file.
type File struct {
	Users []struct {
		Name       string `yaml:"name"`
		Email      string `yaml:"email"`
		Password   string `yaml:"password"`
		Role       string `yaml:"role"`
		RollNumber string `yaml:"roll_number"`
		Hostel     string `yaml:"hostel"`
		Room       string `yaml:"room"`
	} `yaml:"users"`
	QRCodes  []string `yaml:"qr_codes"`
	Machines []struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	} `yaml:"machines"`
}

// Load parses a seed file from disk.
func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// Apply inserts the seed records inside one transaction, guarded by the
// marker row. A second call, or a restart, is a no-op.
func Apply(ctx context.Context, db *gorm.DB, f *File) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var marker model.SeedMarker
		err := tx.First(&marker, "name = ?", markerName).Error
		if err == nil {
			log.Printf("Seed batch %q already applied at %s, skipping", markerName, marker.AppliedAt)
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("failed to check seed marker: %w", err)
		}

		for _, u := range f.Users {
			hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("failed to hash seed password for %s: %w", u.Email, err)
			}
			user := model.User{
				ID:           uuid.NewString(),
				Name:         u.Name,
				Email:        u.Email,
				PasswordHash: string(hash),
				Role:         model.Role(u.Role),
				RollNumber:   u.RollNumber,
				Hostel:       u.Hostel,
				Room:         u.Room,
			}
			user.ProfileComplete = u.RollNumber != "" && u.Hostel != "" && u.Room != ""
			if !user.Role.Valid() {
				return fmt.Errorf("seed user %s has unknown role %q", u.Email, u.Role)
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
			}
		}

		for _, code := range f.QRCodes {
			qr := model.QRCode{ID: uuid.NewString(), Code: code, Status: model.QRAvailable}
			if err := tx.Create(&qr).Error; err != nil {
				return fmt.Errorf("failed to seed qr code %s: %w", code, err)
			}
		}

		for _, m := range f.Machines {
			machine := model.Machine{
				ID:          uuid.NewString(),
				Name:        m.Name,
				Type:        model.MachineType(m.Type),
				Status:      model.MachineAvailable,
				LastUpdated: time.Now().UTC(),
			}
			if err := tx.Create(&machine).Error; err != nil {
				return fmt.Errorf("failed to seed machine %s: %w", m.Name, err)
			}
		}

		marker = model.SeedMarker{Name: markerName, AppliedAt: time.Now().UTC()}
		if err := tx.Create(&marker).Error; err != nil {
			return fmt.Errorf("failed to write seed marker: %w", err)
		}

		log.Printf("Seeded %d users, %d qr codes, %d machines", len(f.Users), len(f.QRCodes), len(f.Machines))
		return nil
	})
}

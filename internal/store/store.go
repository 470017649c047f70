package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"laundryhub-backend/internal/model"
)

// Collection names published on the change feed.
const (
	CollectionOrders    = "orders"
	CollectionQRCodes   = "qrcodes"
	CollectionLostItems = "lostitems"
	CollectionMachines  = "machines"
)

// ErrMachineUnavailable is returned when a transition needs a machine
// that is already processing another bag.
var ErrMachineUnavailable = errors.New("machine is not available")

// OrderFilter narrows order listings. Zero values are ignored.
type OrderFilter struct {
	StudentID string
	Status    model.OrderStatus
	Search    string
}

// LostFilter narrows lost-item listings. Zero values are ignored.
type LostFilter struct {
	Hostel      string
	VisibleOnly bool
	Search      string
}

// AdvanceOptions carries the actor and machine recorded by an order
// transition.
type AdvanceOptions struct {
	Now          time.Time
	OperatorID   string
	OperatorName string
	MachineID    string
}

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB
	Feed() *Feed

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, role model.Role) ([]model.User, error)
	UpdateUserProfile(ctx context.Context, id string, fields map[string]any) error

	// QR codes
	CreateQRCodes(ctx context.Context, codes []string) ([]model.QRCode, error)
	QRCodeByCode(ctx context.Context, code string) (*model.QRCode, error)
	ListQRCodes(ctx context.Context, term string) ([]model.QRCode, error)
	AssignQRCode(ctx context.Context, code string, student, operator *model.User, now time.Time) (*model.QRCode, error)
	VerifyQRCode(ctx context.Context, code string) (*model.QRCode, error)

	// Orders
	CreateOrder(ctx context.Context, o *model.LaundryOrder) error
	OrderByID(ctx context.Context, id string) (*model.LaundryOrder, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]model.LaundryOrder, error)
	AdvanceOrder(ctx context.Context, id string, to model.OrderStatus, opts AdvanceOptions) (*model.LaundryOrder, error)
	AttachBagPhoto(ctx context.Context, id, photo string) error

	// Machines
	CreateMachine(ctx context.Context, m *model.Machine) error
	ListMachines(ctx context.Context) ([]model.Machine, error)

	// Lost items
	CreateLostItem(ctx context.Context, it *model.LostItem) error
	LostItemByID(ctx context.Context, id string) (*model.LostItem, error)
	ListLostItems(ctx context.Context, f LostFilter) ([]model.LostItem, error)
	ClaimLostItem(ctx context.Context, id string, claimant *model.User, now time.Time) (*model.LostItem, error)
	ModerateLostItem(ctx context.Context, id string, to model.LostStatus) (*model.LostItem, error)

	// Analytics
	StatusCounts(ctx context.Context) (*Analytics, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db   *gorm.DB
	feed *Feed
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, feed: NewFeed()}
}

// DB exposes the underlying handle for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Feed exposes the in-process change feed.
func (s *gormStore) Feed() *Feed {
	return s.feed
}

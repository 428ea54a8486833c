package storage

import (
	"context"
	"errors"
	"time"

	"github.com/swasthyasaathi/bot/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence boundary for the conversation router and
// the broadcast dispatcher.
type Storage interface {
	// GetUserByWaID returns the user for a WhatsApp identifier, or
	// ErrNotFound.
	GetUserByWaID(ctx context.Context, waUserID string) (*models.User, error)
	// CreateUser inserts a new user and fills in its assigned ID.
	CreateUser(ctx context.Context, user *models.User) error
	// UpdateUser persists profile changes (consent, language, pincode).
	UpdateUser(ctx context.Context, user *models.User) error

	// GetChild returns the most recently set child for a user, or
	// ErrNotFound.
	GetChild(ctx context.Context, userID int64) (*models.Child, error)
	// UpsertChild records a child's date of birth, overwriting the
	// most recently set record if one exists.
	UpsertChild(ctx context.Context, userID int64, dob time.Time) error

	// ListConsentedByPincode returns every consenting user at a
	// location code.
	ListConsentedByPincode(ctx context.Context, pincode string) ([]*models.User, error)

	// Embed OutboxStorage interface
	OutboxStorage

	Close() error
}

// OutboxStorage records outbound reply directives. A directive row is
// appended before delivery is attempted, so intent survives a failed
// send.
type OutboxStorage interface {
	AppendOutbox(ctx context.Context, msg *models.OutboundMessage) error
	MarkDelivered(ctx context.Context, id string) error
}

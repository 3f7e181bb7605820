package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no message exists with the requested ID.
var ErrNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	List(ctx context.Context, limit, offset int) ([]*Message, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

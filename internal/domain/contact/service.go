package contact

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Service struct {
	messages MessageRepository
}

func NewService(messages MessageRepository) *Service {
	return &Service{messages: messages}
}

// Submit validates and stores a new contact message. The email is normalized
// to lowercase and all fields are trimmed before storage.
func (s *Service) Submit(ctx context.Context, m *Message) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)

	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(m.Email) {
		return fmt.Errorf("email is not valid")
	}
	if m.Message == "" {
		return fmt.Errorf("message is required")
	}

	return s.messages.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.messages.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Message, int, error) {
	return s.messages.List(ctx, limit, offset)
}

// SetStatus transitions a message to the given status.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*Message, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return s.messages.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.messages.Delete(ctx, id)
}

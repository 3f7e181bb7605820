package contact

import (
	"time"

	"github.com/google/uuid"
)

// Message status values.
const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// ValidStatus reports whether s is one of the known message statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusNew, StatusRead, StatusReplied:
		return true
	}
	return false
}

// Message is a contact form submission.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

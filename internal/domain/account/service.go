package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/arogya/arogya/internal/platform/auth"
)

// ErrInvalidCredentials is returned for any failed login. The message is
// identical whether the email is unknown or the password is wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AdminCredentials is the optional environment-provided admin account.
type AdminCredentials struct {
	Email    string
	Password string
}

type Service struct {
	users  UserRepository
	issuer *auth.Issuer
	admin  AdminCredentials
}

func NewService(users UserRepository, issuer *auth.Issuer, admin AdminCredentials) *Service {
	return &Service{users: users, issuer: issuer, admin: admin}
}

// Register creates a new user with a bcrypt password hash and returns it
// together with a signed access token.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", fmt.Errorf("name is required")
	}
	if email == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if len(password) < 8 {
		return nil, "", fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{"user"},
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Roles)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and returns the user and a signed access token.
// The environment-provided admin account, when configured, takes precedence
// over stored users.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.admin.Email != "" && email == strings.ToLower(s.admin.Email) {
		if password != s.admin.Password {
			return nil, "", ErrInvalidCredentials
		}
		admin := &User{Name: "Administrator", Email: email, Roles: []string{"admin"}}
		token, err := s.issuer.Issue("admin", admin.Roles)
		if err != nil {
			return nil, "", err
		}
		return admin, token, nil
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Roles)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me loads the user identified by the token subject.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	if userID == "admin" && s.admin.Email != "" {
		return &User{Name: "Administrator", Email: strings.ToLower(s.admin.Email), Roles: []string{"admin"}}, nil
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.users.GetByID(ctx, id)
}

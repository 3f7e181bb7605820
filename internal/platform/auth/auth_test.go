package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-123", []string{"user"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("expected subject user-123, got %s", claims.Subject)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != "user" {
		t.Errorf("unexpected roles: %v", claims.Roles)
	}
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Hour)

	token, err := issuer.Issue("user-123", nil)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestIssuer_RejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Hour)
	other := NewIssuer("secret-b", time.Hour)

	token, err := issuer.Issue("user-123", nil)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func newAuthContext(header string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	mw := Middleware(issuer)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(newAuthContext(""))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_MalformedHeader(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	mw := Middleware(issuer)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(newAuthContext("NotBearer abc"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	mw := Middleware(issuer)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(newAuthContext("Bearer not-a-token"))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestMiddleware_SetsIdentity(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("user-42", []string{"admin"})
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	mw := Middleware(issuer)
	var gotID string
	var gotRoles []string
	handler := mw(func(c echo.Context) error {
		ctx := c.Request().Context()
		gotID = UserIDFromContext(ctx)
		gotRoles = RolesFromContext(ctx)
		return c.NoContent(http.StatusOK)
	})

	if err := handler(newAuthContext("Bearer " + token)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotID != "user-42" {
		t.Errorf("expected user ID user-42, got %s", gotID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("unexpected roles: %v", gotRoles)
	}
}

func TestRequireAdmin(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	cases := []struct {
		name     string
		roles    []string
		wantCode int
	}{
		{"admin allowed", []string{"admin"}, http.StatusOK},
		{"user forbidden", []string{"user"}, http.StatusForbidden},
		{"no roles forbidden", nil, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := issuer.Issue("user-1", tc.roles)
			if err != nil {
				t.Fatalf("Issue() error: %v", err)
			}

			chain := Middleware(issuer)(RequireAdmin()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))

			c := newAuthContext("Bearer " + token)
			err = chain(c)

			if tc.wantCode == http.StatusOK {
				if err != nil {
					t.Errorf("expected success, got %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != tc.wantCode {
				t.Errorf("expected %d, got %v", tc.wantCode, err)
			}
		})
	}
}

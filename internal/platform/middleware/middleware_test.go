package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestContext(method, path string, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRequestID_GeneratesNew(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")

	mw := RequestID()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	rid, ok := c.Get("request_id").(string)
	if !ok || rid == "" {
		t.Error("expected request_id to be set on context")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected response header to carry the request ID")
	}
	if rec.Header().Get(RequestIDHeader) != rid {
		t.Error("context and response request IDs differ")
	}
}

func TestRequestID_PreservesExisting(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")
	c.Request().Header.Set(RequestIDHeader, "my-custom-id")

	mw := RequestID()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rid := c.Get("request_id"); rid != "my-custom-id" {
		t.Errorf("expected request_id my-custom-id, got %v", rid)
	}
	if got := rec.Header().Get(RequestIDHeader); got != "my-custom-id" {
		t.Errorf("expected response header my-custom-id, got %s", got)
	}
}

func TestRecovery_CatchesPanic(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")

	mw := Recovery(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		panic("boom")
	})

	err := handler(c)
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", he.Code)
	}
}

func TestRecovery_PassesThrough(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")

	mw := Recovery(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogger_PassesThrough(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")

	mw := Logger(zerolog.Nop())
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBodyLimit_RejectsOversized(t *testing.T) {
	body := strings.Repeat("x", 100)
	c, _ := newTestContext(http.MethodPost, "/", body)

	mw := BodyLimit(10)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := handler(c)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}

	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected status 413, got %d", he.Code)
	}
}

func TestBodyLimit_AllowsSmall(t *testing.T) {
	c, _ := newTestContext(http.MethodPost, "/", "small")

	mw := BodyLimit(1024)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	mw := RateLimit(10, 5)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 5; i++ {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request().RemoteAddr = "192.0.2.1:1234"
		if err := handler(c); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	mw := RateLimit(0.001, 2)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	var lastErr error
	for i := 0; i < 5; i++ {
		c, _ := newTestContext(http.MethodGet, "/", "")
		c.Request().RemoteAddr = "192.0.2.2:1234"
		lastErr = handler(c)
	}

	if lastErr == nil {
		t.Fatal("expected rate limit error after exhausting burst")
	}
	he, ok := lastErr.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", lastErr)
	}
	if he.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", he.Code)
	}
}

func TestRateLimit_SeparateClients(t *testing.T) {
	mw := RateLimit(0.001, 1)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c1, _ := newTestContext(http.MethodGet, "/", "")
	c1.Request().RemoteAddr = "192.0.2.10:1234"
	if err := handler(c1); err != nil {
		t.Fatalf("client 1: unexpected error: %v", err)
	}

	c2, _ := newTestContext(http.MethodGet, "/", "")
	c2.Request().RemoteAddr = "192.0.2.11:1234"
	if err := handler(c2); err != nil {
		t.Fatalf("client 2: unexpected error: %v", err)
	}
}

func TestTimeout_ExpiresSlowHandler(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/", "")

	mw := Timeout(10 * time.Millisecond)
	handler := mw(func(c echo.Context) error {
		ctx := c.Request().Context()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return c.NoContent(http.StatusOK)
		}
	})

	err := handler(c)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", he.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/", "")

	mw := SecurityHeaders()
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	expected := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Content-Security-Policy": "default-src 'none'",
		"Referrer-Policy":         "no-referrer",
		"Cache-Control":           "no-store",
	}
	for header, want := range expected {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s: expected %q, got %q", header, want, got)
		}
	}
}

// Package client is a small programmatic client for the diagnosis API. It
// validates symptom form input before submission and hands the fetched
// result to a presenter through a single-slot mailbox.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arogya/arogya/internal/domain/diagnosis"
	"github.com/arogya/arogya/pkg/mailbox"
)

// Form is the symptom questionnaire a user fills in before diagnosis.
type Form struct {
	Name     string
	Age      int
	Gender   string
	Issue    string
	Days     int
	Severity string
}

var (
	validGenders    = map[string]bool{"male": true, "female": true, "other": true}
	validSeverities = map[string]bool{"mild": true, "moderate": true, "severe": true}
)

// Validate checks the form. Submission never happens for an invalid form.
func (f *Form) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("all required fields must be filled")
	}
	if strings.TrimSpace(f.Issue) == "" {
		return fmt.Errorf("please describe your symptoms")
	}
	if f.Age < 1 || f.Age > 120 {
		return fmt.Errorf("age must be between 1 and 120")
	}
	if f.Days < 1 {
		return fmt.Errorf("days must be at least 1")
	}
	if !validGenders[f.Gender] {
		return fmt.Errorf("gender must be male, female, or other")
	}
	if !validSeverities[f.Severity] {
		return fmt.Errorf("severity must be mild, moderate, or severe")
	}
	return nil
}

// Collector submits validated forms to the diagnose endpoint and stores the
// result for a presenter to take.
type Collector struct {
	baseURL    string
	httpClient *http.Client
	results    *mailbox.Mailbox[diagnosis.Result]
}

func NewCollector(baseURL string, results *mailbox.Mailbox[diagnosis.Result]) *Collector {
	return &Collector{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		results:    results,
	}
}

// SetHTTPClient overrides the underlying HTTP client.
func (c *Collector) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Submit validates the form, posts it with the location hint, and places the
// parsed result into the mailbox. The returned error carries the server's
// message for display.
func (c *Collector) Submit(ctx context.Context, form *Form, latitude, longitude *float64, pincode string) error {
	if err := form.Validate(); err != nil {
		return err
	}

	payload := diagnosis.Request{
		Symptoms:  strings.TrimSpace(form.Issue),
		Latitude:  latitude,
		Longitude: longitude,
		Pincode:   pincode,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/diagnose", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("network error, please try again: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		msg := errBody.Error
		if msg == "" {
			msg = errBody.Message
		}
		if msg == "" {
			msg = "failed to get diagnosis"
		}
		return fmt.Errorf("%s", msg)
	}

	var result diagnosis.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.results.Put(result)
	return nil
}

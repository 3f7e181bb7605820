package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogleClient_NearbyHospitals(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/place/nearbysearch/json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"name": "City Hospital", "vicinity": "12 Main St", "rating": 4.5, "user_ratings_total": 200, "place_id": "abc123"},
				{"name": "General Hospital", "vicinity": "34 Oak Ave", "rating": 3.9, "user_ratings_total": 80, "place_id": "def456"}
			]
		}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", WithBaseURL(server.URL))

	got, err := client.NearbyHospitals(context.Background(), 12.9716, 77.5946)
	if err != nil {
		t.Fatalf("NearbyHospitals() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 places, got %d", len(got))
	}
	if got[0].Name != "City Hospital" || got[0].Address != "12 Main St" {
		t.Errorf("unexpected first place: %+v", got[0])
	}
	if got[0].MapURL != "https://www.google.com/maps/place/?q=place_id:abc123" {
		t.Errorf("unexpected map URL: %s", got[0].MapURL)
	}

	for _, want := range []string{"type=hospital", "radius=10000", "rankby=prominence", "key=test-key"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("expected query to contain %q, got %s", want, gotQuery)
		}
	}
}

func TestGoogleClient_NearbyHospitals_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", WithBaseURL(server.URL))

	got, err := client.NearbyHospitals(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected no error for ZERO_RESULTS, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d places", len(got))
	}
}

func TestGoogleClient_NearbyHospitals_Denied(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`))
	}))
	defer server.Close()

	client := NewGoogleClient("bad-key", WithBaseURL(server.URL))

	_, err := client.NearbyHospitals(context.Background(), 0, 0)
	if err == nil {
		t.Fatal("expected error for REQUEST_DENIED")
	}
	if !strings.Contains(err.Error(), "REQUEST_DENIED") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestGoogleClient_GeocodePostalCode(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/geocode/json") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 18.5204, "lng": 73.8567}}}]
		}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", WithBaseURL(server.URL))

	lat, lng, err := client.GeocodePostalCode(context.Background(), "411001")
	if err != nil {
		t.Fatalf("GeocodePostalCode() error: %v", err)
	}
	if lat != 18.5204 || lng != 73.8567 {
		t.Errorf("unexpected coordinates: %f, %f", lat, lng)
	}
	if !strings.Contains(gotQuery, "postal_code%3A411001") {
		t.Errorf("expected components filter in query, got %s", gotQuery)
	}
}

func TestGoogleClient_GeocodePostalCode_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer server.Close()

	client := NewGoogleClient("test-key", WithBaseURL(server.URL))

	_, _, err := client.GeocodePostalCode(context.Background(), "000000")
	if err == nil {
		t.Fatal("expected error for unresolvable postal code")
	}
}

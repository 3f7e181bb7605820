package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultMapsBaseURL = "https://maps.googleapis.com/maps/api"

// searchRadiusMeters bounds the nearby hospital search.
const searchRadiusMeters = 10000

// GoogleClient calls the Places and Geocoding web services.
type GoogleClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type GoogleOption func(*GoogleClient)

// WithBaseURL overrides the API base URL, used by tests.
func WithBaseURL(url string) GoogleOption {
	return func(c *GoogleClient) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) GoogleOption {
	return func(c *GoogleClient) { c.httpClient = client }
}

func NewGoogleClient(apiKey string, opts ...GoogleOption) *GoogleClient {
	c := &GoogleClient{
		apiKey:     apiKey,
		baseURL:    defaultMapsBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nearbySearchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Name             string  `json:"name"`
		Vicinity         string  `json:"vicinity"`
		Rating           float64 `json:"rating"`
		UserRatingsTotal int     `json:"user_ratings_total"`
		PlaceID          string  `json:"place_id"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// NearbyHospitals searches for hospitals within 10km of the coordinate,
// ranked by prominence. ZERO_RESULTS yields an empty slice, not an error.
func (c *GoogleClient) NearbyHospitals(ctx context.Context, lat, lng float64) ([]Place, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", fmt.Sprintf("%d", searchRadiusMeters))
	q.Set("type", "hospital")
	q.Set("rankby", "prominence")
	q.Set("key", c.apiKey)

	endpoint := c.baseURL + "/place/nearbysearch/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call nearby search: %w", err)
	}
	defer resp.Body.Close()

	var out nearbySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode nearby search response: %w", err)
	}

	switch out.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, nil
	default:
		return nil, fmt.Errorf("nearby search status %s: %s", out.Status, out.ErrorMessage)
	}

	results := make([]Place, 0, len(out.Results))
	for _, r := range out.Results {
		results = append(results, Place{
			Name:             r.Name,
			Address:          r.Vicinity,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			PlaceID:          r.PlaceID,
			MapURL:           "https://www.google.com/maps/place/?q=place_id:" + r.PlaceID,
		})
	}
	return results, nil
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	ErrorMessage string `json:"error_message"`
}

// GeocodePostalCode resolves a postal code to its centroid coordinate.
func (c *GoogleClient) GeocodePostalCode(ctx context.Context, code string) (float64, float64, error) {
	q := url.Values{}
	q.Set("components", "postal_code:"+code)
	q.Set("key", c.apiKey)

	endpoint := c.baseURL + "/geocode/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("call geocode: %w", err)
	}
	defer resp.Body.Close()

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, 0, fmt.Errorf("decode geocode response: %w", err)
	}

	if out.Status != "OK" || len(out.Results) == 0 {
		return 0, 0, fmt.Errorf("geocode status %s for postal code %s", out.Status, code)
	}

	loc := out.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

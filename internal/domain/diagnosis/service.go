package diagnosis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arogya/arogya/internal/platform/genai"
	"github.com/arogya/arogya/internal/platform/places"
	"github.com/arogya/arogya/internal/platform/telemetry"
)

var (
	// ErrInvalidRequest marks validation failures that are the caller's fault.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamFormat marks model output that could not be parsed as the
	// expected JSON structure.
	ErrUpstreamFormat = errors.New("ai response format error")
)

var pincodePattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

// maxHospitals caps the number of hospitals returned to the client.
const maxHospitals = 5

// minRatingsCount filters out venues with too few reviews to rank.
const minRatingsCount = 10

type Service struct {
	provider genai.TextProvider
	searcher places.Searcher
	metrics  *telemetry.Provider
	logger   zerolog.Logger
}

func NewService(provider genai.TextProvider, searcher places.Searcher, metrics *telemetry.Provider, logger zerolog.Logger) *Service {
	return &Service{provider: provider, searcher: searcher, metrics: metrics, logger: logger}
}

// validate checks the request and resolves the location hint. No upstream
// call is made before validation passes.
func (s *Service) validate(req *Request) error {
	req.Symptoms = strings.TrimSpace(req.Symptoms)
	if req.Symptoms == "" {
		return fmt.Errorf("%w: please enter your symptoms", ErrInvalidRequest)
	}

	hasCoords := req.Latitude != nil && req.Longitude != nil
	hasPincode := req.Pincode != ""

	if !hasCoords && !hasPincode {
		return fmt.Errorf("%w: location is required", ErrInvalidRequest)
	}

	if hasCoords {
		lat, lng := *req.Latitude, *req.Longitude
		if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
			return fmt.Errorf("%w: invalid coordinates", ErrInvalidRequest)
		}
		return nil
	}

	if !pincodePattern.MatchString(req.Pincode) {
		return fmt.Errorf("%w: pincode must be 6 digits", ErrInvalidRequest)
	}
	return nil
}

// Diagnose runs the full pipeline: validate, ask the model for an
// assessment, then look up nearby hospitals. A hospital lookup failure
// degrades to an empty list rather than failing the request.
func (s *Service) Diagnose(ctx context.Context, req *Request) (*Result, error) {
	if err := s.validate(req); err != nil {
		s.metrics.DiagnosisCounter("validation_error")
		return nil, err
	}

	assessment, err := s.assess(ctx, req.Symptoms)
	if err != nil {
		if errors.Is(err, ErrUpstreamFormat) {
			s.metrics.DiagnosisCounter("upstream_error")
		} else {
			s.metrics.DiagnosisCounter("internal_error")
		}
		return nil, err
	}

	result := &Result{Assessment: *assessment, Hospitals: []places.Place{}}

	lat, lng, ok := s.resolveLocation(ctx, req)
	if ok {
		result.Location = &Location{Lat: lat, Lng: lng}
		result.Hospitals = s.nearbyHospitals(ctx, lat, lng)
	}

	s.metrics.DiagnosisCounter("ok")
	return result, nil
}

func (s *Service) assess(ctx context.Context, symptoms string) (*Assessment, error) {
	raw, err := s.provider.Complete(ctx, buildPrompt(symptoms))
	if err != nil {
		s.metrics.UpstreamCounter("genai", "error")
		return nil, fmt.Errorf("generate assessment: %w", err)
	}
	s.metrics.UpstreamCounter("genai", "ok")

	text := genai.ExtractJSON(raw)

	var a Assessment
	if err := json.Unmarshal([]byte(text), &a); err != nil {
		s.logger.Error().Err(err).Msg("model output is not valid JSON")
		return nil, ErrUpstreamFormat
	}
	// Diagnosis, remedies, precautions, and specialists are all mandatory.
	// A reply missing any of them fails the request rather than rendering a
	// partial report.
	if a.Diagnosis == "" || len(a.Remedies) == 0 || len(a.Precautions) == 0 || len(a.Specialists) == 0 {
		s.logger.Error().Msg("model output is missing mandatory assessment fields")
		return nil, ErrUpstreamFormat
	}
	return &a, nil
}

// resolveLocation returns the coordinate to search around. Geocoding
// failures are swallowed, matching the non-fatal hospital lookup contract.
func (s *Service) resolveLocation(ctx context.Context, req *Request) (float64, float64, bool) {
	if req.Latitude != nil && req.Longitude != nil {
		return *req.Latitude, *req.Longitude, true
	}

	lat, lng, err := s.searcher.GeocodePostalCode(ctx, req.Pincode)
	if err != nil {
		s.metrics.UpstreamCounter("places", "error")
		s.logger.Warn().Err(err).Str("pincode", req.Pincode).Msg("postal code geocoding failed")
		return 0, 0, false
	}
	return lat, lng, true
}

// nearbyHospitals fetches, filters, and ranks hospitals. Any failure yields
// an empty slice.
func (s *Service) nearbyHospitals(ctx context.Context, lat, lng float64) []places.Place {
	found, err := s.searcher.NearbyHospitals(ctx, lat, lng)
	if err != nil {
		s.metrics.UpstreamCounter("places", "error")
		s.logger.Warn().Err(err).Msg("hospital lookup failed")
		return []places.Place{}
	}
	s.metrics.UpstreamCounter("places", "ok")

	ranked := make([]places.Place, 0, len(found))
	for _, p := range found {
		if p.Rating > 0 && p.UserRatingsTotal > minRatingsCount {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating > ranked[j].Rating
	})

	if len(ranked) > maxHospitals {
		ranked = ranked[:maxHospitals]
	}
	return ranked
}

// Package places provides hospital lookup and postal code geocoding backed
// by the Google Maps Platform web services.
package places

import "context"

// Place is a single venue returned by a nearby search.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float64 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	PlaceID          string  `json:"place_id"`
	MapURL           string  `json:"map_url"`
}

// Searcher finds hospitals near a coordinate and resolves postal codes.
type Searcher interface {
	NearbyHospitals(ctx context.Context, lat, lng float64) ([]Place, error)
	GeocodePostalCode(ctx context.Context, code string) (lat, lng float64, err error)
}

package diagnosis

import "github.com/arogya/arogya/internal/platform/places"

// Request is the diagnose request body. The caller supplies either a
// coordinate pair or a 6 digit postal code.
type Request struct {
	Symptoms  string   `json:"symptoms"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Pincode   string   `json:"pincode"`
}

// Location is the resolved coordinate echoed back in the response.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Assessment is the structured output the model is asked to produce.
type Assessment struct {
	Diagnosis   string   `json:"diagnosis"`
	Remedies    []string `json:"remedies"`
	Precautions []string `json:"precautions"`
	Specialists []string `json:"specialists"`
	Note        string   `json:"note"`
}

// Result is the full diagnose response: the model's assessment plus nearby
// hospitals ranked by rating.
type Result struct {
	Assessment
	Location  *Location      `json:"location,omitempty"`
	Hospitals []places.Place `json:"hospitals"`
}

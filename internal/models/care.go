package models

import "time"

// CareRecommendation is the fixed schema the generative model is asked to
// produce for a pet description.
type CareRecommendation struct {
	Diet        []string `json:"diet"`
	Exercise    []string `json:"exercise"`
	Grooming    []string `json:"grooming"`
	Health      []string `json:"health"`
	Environment []string `json:"environment"`
	Warnings    []string `json:"warnings"`

	// ParseError and Raw are set only on the degraded payload returned
	// when the model response did not match the schema.
	ParseError bool   `json:"parse_error,omitempty"`
	Raw        string `json:"raw,omitempty"`
}

type CareRequest struct {
	Species string `json:"species"`
	Breed   string `json:"breed"`
	Age     int    `json:"age"`
	Weight  string `json:"weight"`
	Notes   string `json:"notes"`
}

func (r *CareRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Species == "" {
		errors["species"] = "Species is required"
	}
	if r.Age < 0 {
		errors["age"] = "Age cannot be negative"
	}

	return errors
}

// Clinic is a nearby veterinary place resolved from the places collaborator.
type Clinic struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Phone     string   `json:"phone,omitempty"`
	Rating    float32  `json:"rating"`
	OpenNow   *bool    `json:"open_now,omitempty"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	DistanceM float64  `json:"distance_m"`
	MapsURL   string   `json:"maps_url"`
	Services  []string `json:"services"`
}

// UserFlag tracks moderation outcomes for a user.
type UserFlag struct {
	UserID       string    `json:"user_id" bson:"user_id"`
	Strikes      int       `json:"strikes" bson:"strikes"`
	LastStrikeAt time.Time `json:"last_strike_at" bson:"last_strike_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

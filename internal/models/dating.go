package models

import (
	"time"
)

// Gender values accepted on dating profiles.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
	GenderOther  = "OTHER"
)

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat].
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p *GeoPoint) Lat() float64 {
	if p == nil || len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p *GeoPoint) Lng() float64 {
	if p == nil || len(p.Coordinates) < 1 {
		return 0
	}
	return p.Coordinates[0]
}

// DatingProfile is the owner-dating record. At most one exists per owner.
// The likes/passes/matches lists hold dating-profile IDs, not auth UIDs:
// a chat can exist with a counterpart that has no dating profile, but a
// like cannot.
type DatingProfile struct {
	ID            string    `json:"id" bson:"_id"`
	OwnerID       string    `json:"owner_id" bson:"owner_id"`
	PetName       string    `json:"pet_name" bson:"pet_name,omitempty"`
	Age           int       `json:"age" bson:"age"`
	Gender        string    `json:"gender" bson:"gender"`
	Bio           string    `json:"bio" bson:"bio,omitempty"`
	Location      string    `json:"location" bson:"location,omitempty"`
	Geo           *GeoPoint `json:"geo,omitempty" bson:"geo,omitempty"`
	ImageURLs     []string  `json:"image_urls" bson:"image_urls,omitempty"`
	Likes         []string  `json:"likes" bson:"likes"`
	Passes        []string  `json:"passes" bson:"passes"`
	Matches       []string  `json:"matches" bson:"matches"`
	IsOwnerDating bool      `json:"is_owner_dating" bson:"is_owner_dating"`
	IsActive      bool      `json:"is_active" bson:"is_active"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

type CreateDatingProfileRequest struct {
	PetName   string   `json:"pet_name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Bio       string   `json:"bio"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	ImageURLs []string `json:"image_urls"`
}

type UpdateDatingProfileRequest struct {
	PetName   *string   `json:"pet_name"`
	Age       *int      `json:"age"`
	Gender    *string   `json:"gender"`
	Bio       *string   `json:"bio"`
	Location  *string   `json:"location"`
	Latitude  *float64  `json:"latitude"`
	Longitude *float64  `json:"longitude"`
	ImageURLs *[]string `json:"image_urls"`
}

// NearbyProfilesQuery is a radius search around a point. Radius is meters.
// Gender and the age bounds are optional; zero values mean "no filter".
type NearbyProfilesQuery struct {
	Latitude  float64
	Longitude float64
	RadiusM   float64
	Gender    string
	MinAge    int
	MaxAge    int
}

// NearbyProfile pairs a profile with its distance from the query point.
type NearbyProfile struct {
	Profile   *DatingProfile `json:"profile"`
	DistanceM float64        `json:"distance_m"`
}

// LikeResult reports whether a like completed a mutual match.
type LikeResult struct {
	Match   bool   `json:"match"`
	Message string `json:"message"`
}

func validGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

func (r *CreateDatingProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Age < 18 {
		errors["age"] = "Owner must be at least 18 years old"
	}
	if r.Gender == "" {
		errors["gender"] = "Gender is required"
	} else if !validGender(r.Gender) {
		errors["gender"] = "Gender must be MALE, FEMALE or OTHER"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errors["location"] = "Latitude and longitude must be provided together"
	}

	return errors
}

func (r *UpdateDatingProfileRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Age != nil && *r.Age < 18 {
		errors["age"] = "Owner must be at least 18 years old"
	}
	if r.Gender != nil && !validGender(*r.Gender) {
		errors["gender"] = "Gender must be MALE, FEMALE or OTHER"
	}
	if (r.Latitude == nil) != (r.Longitude == nil) {
		errors["location"] = "Latitude and longitude must be provided together"
	}

	return errors
}

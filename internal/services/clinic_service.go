package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"googlemaps.github.io/maps"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

var (
	ErrClinicBadInput    = errors.New("invalid clinic query")
	ErrClinicUnavailable = errors.New("places lookup unavailable")
)

const (
	defaultClinicRadiusM = 5000
	maxClinicResults     = 15
)

// serviceKeywords maps keywords found in place names to the service tags
// surfaced on clinic cards.
var serviceKeywords = map[string]string{
	"emergency": "emergency",
	"24":        "24-hour",
	"hospital":  "hospital",
	"grooming":  "grooming",
	"boarding":  "boarding",
	"dental":    "dental",
	"surgery":   "surgery",
}

// ClinicService finds veterinary clinics near a point or address using the
// Google Places API.
type ClinicService struct {
	client *maps.Client
}

func NewClinicService(apiKey string) (*ClinicService, error) {
	if apiKey == "" {
		return nil, ErrClinicUnavailable
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &ClinicService{client: c}, nil
}

// Geocode resolves a free-form address to coordinates.
func (s *ClinicService) Geocode(ctx context.Context, address string) (float64, float64, error) {
	if address == "" {
		return 0, 0, ErrClinicBadInput
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, ErrClinicBadInput
	}
	loc := results[0].Geometry.Location
	return loc.Lat, loc.Lng, nil
}

// Nearby returns clinics within radiusM of the point, nearest first.
func (s *ClinicService) Nearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Clinic, error) {
	if radiusM <= 0 {
		radiusM = defaultClinicRadiusM
	}

	resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   uint(radiusM),
		Type:     maps.PlaceTypeVeterinaryCare,
	})
	if err != nil {
		log.Printf("[ClinicService] nearby search failed: %v", err)
		return nil, ErrClinicUnavailable
	}

	clinics := make([]*models.Clinic, 0, len(resp.Results))
	for _, r := range resp.Results {
		c := &models.Clinic{
			Name:      r.Name,
			Address:   r.Vicinity,
			Rating:    r.Rating,
			Latitude:  r.Geometry.Location.Lat,
			Longitude: r.Geometry.Location.Lng,
			MapsURL:   fmt.Sprintf("https://www.google.com/maps/place/?q=place_id:%s", r.PlaceID),
			Services:  tagServices(r.Name),
		}
		c.DistanceM = HaversineM(lat, lng, c.Latitude, c.Longitude)
		if r.OpeningHours != nil {
			c.OpenNow = r.OpeningHours.OpenNow
		}
		clinics = append(clinics, c)
	}

	sort.Slice(clinics, func(i, j int) bool {
		return clinics[i].DistanceM < clinics[j].DistanceM
	})
	if len(clinics) > maxClinicResults {
		clinics = clinics[:maxClinicResults]
	}
	return clinics, nil
}

func tagServices(name string) []string {
	lower := strings.ToLower(name)
	tags := []string{"checkup", "vaccination"}
	for kw, tag := range serviceKeywords {
		if strings.Contains(lower, kw) {
			tags = append(tags, tag)
		}
	}
	return tags
}

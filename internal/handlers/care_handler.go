package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

type CareHandler struct {
	careService   *services.CareService
	clinicService *services.ClinicService
}

// NewCareHandler takes nil services when the corresponding API keys are not
// configured; the endpoints then report the feature as unavailable.
func NewCareHandler(careService *services.CareService, clinicService *services.ClinicService) *CareHandler {
	return &CareHandler{
		careService:   careService,
		clinicService: clinicService,
	}
}

func (h *CareHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if h.careService == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Care recommendations are not configured"))
		return
	}

	var req models.CareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	rec, err := h.careService.Recommend(r.Context(), &req)
	if err != nil {
		log.Printf("[CareRecommend] Service error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Care recommendations are temporarily unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(rec))
}

// NearbyClinics resolves either lat/lng or an address query to vet clinics.
func (h *CareHandler) NearbyClinics(w http.ResponseWriter, r *http.Request) {
	if h.clinicService == nil {
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Clinic lookup is not configured"))
		return
	}

	lat, okLat := queryFloat(r, "lat")
	lng, okLng := queryFloat(r, "lng")
	if !okLat || !okLng {
		address := r.URL.Query().Get("address")
		if address == "" {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("lat/lng or address is required"))
			return
		}
		var err error
		lat, lng, err = h.clinicService.Geocode(r.Context(), address)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Could not resolve address"))
			return
		}
	}

	radius, ok := queryFloat(r, "radius")
	if !ok {
		radius = 0
	}

	clinics, err := h.clinicService.Nearby(r.Context(), lat, lng, radius)
	if err != nil {
		log.Printf("[NearbyClinics] Service error: %v", err)
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Clinic lookup is temporarily unavailable"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(clinics))
}

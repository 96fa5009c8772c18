package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

type DatingHandler struct {
	datingService     services.DatingService
	moderationService *services.ModerationService
}

func NewDatingHandler(datingService services.DatingService, moderationService *services.ModerationService) *DatingHandler {
	return &DatingHandler{
		datingService:     datingService,
		moderationService: moderationService,
	}
}

func (h *DatingHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateDatingProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if h.moderationService != nil && len(req.ImageURLs) > 0 {
		approved, err := h.moderationService.ModerateMultiple(r.Context(), req.ImageURLs, userID)
		if err != nil {
			if err == services.ErrImageRejected {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected: violates community guidelines"))
				return
			}
			log.Printf("[CreateDatingProfile] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photos"))
			return
		}
		req.ImageURLs = approved
	}

	profile, err := h.datingService.Create(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrProfileExists {
			writeJSON(w, http.StatusConflict, models.NewErrorResponse("Dating profile already exists"))
			return
		}
		log.Printf("[CreateDatingProfile] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create profile"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(profile))
}

func (h *DatingHandler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.datingService.GetByOwner(r.Context(), userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *DatingHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileId")

	profile, err := h.datingService.GetByID(r.Context(), profileID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *DatingHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req models.UpdateDatingProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if h.moderationService != nil && req.ImageURLs != nil {
		approved, err := h.moderationService.ModerateMultiple(r.Context(), *req.ImageURLs, userID)
		if err != nil {
			if err == services.ErrImageRejected {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected: violates community guidelines"))
				return
			}
			log.Printf("[UpdateDatingProfile] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photos"))
			return
		}
		req.ImageURLs = &approved
	}

	profile, err := h.datingService.Update(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		log.Printf("[UpdateDatingProfile] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *DatingHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.datingService.Delete(r.Context(), userID); err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Profile deleted successfully"}))
}

// Like records a directed like. Reciprocity only mutates the two
// profiles' lists; match records are created solely through the match
// endpoints.
func (h *DatingHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "profileId")

	matched, err := h.datingService.Like(r.Context(), userID, targetID)
	if err != nil {
		switch err {
		case services.ErrProfileNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
		case services.ErrSelfAction:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Cannot like your own profile"))
		default:
			log.Printf("[Like] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record like"))
		}
		return
	}

	result := models.LikeResult{Match: matched}
	if matched {
		result.Message = "It's a match!"
	} else {
		result.Message = "Like recorded"
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(result))
}

func (h *DatingHandler) Pass(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	targetID := chi.URLParam(r, "profileId")

	if err := h.datingService.Pass(r.Context(), userID, targetID); err != nil {
		switch err {
		case services.ErrProfileNotFound:
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
		case services.ErrSelfAction:
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Cannot pass your own profile"))
		default:
			log.Printf("[Pass] Service error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record pass"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Pass recorded"}))
}

func (h *DatingHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.datingService.ToggleActive(r.Context(), userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		log.Printf("[ToggleActive] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to toggle profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profile))
}

func (h *DatingHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, okLat := queryFloat(r, "lat")
	lng, okLng := queryFloat(r, "lng")
	if !okLat || !okLng {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("lat and lng are required"))
		return
	}
	radius, ok := queryFloat(r, "radius")
	if !ok {
		radius = 10000
	}

	q := &models.NearbyProfilesQuery{
		Latitude:  lat,
		Longitude: lng,
		RadiusM:   radius,
		Gender:    r.URL.Query().Get("gender"),
		MinAge:    queryInt(r, "min_age"),
		MaxAge:    queryInt(r, "max_age"),
	}

	profiles, err := h.datingService.Nearby(r.Context(), q)
	if err != nil {
		if err == services.ErrDatingBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid nearby query"))
			return
		}
		log.Printf("[Nearby] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to search nearby profiles"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

func (h *DatingHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profiles, err := h.datingService.ListMatchedProfiles(r.Context(), userID)
	if err != nil {
		if err == services.ErrProfileNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Dating profile not found"))
			return
		}
		log.Printf("[ListMatches] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list matches"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(profiles))
}

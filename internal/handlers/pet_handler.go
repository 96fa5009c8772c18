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

type PetHandler struct {
	petService        services.PetService
	moderationService *services.ModerationService
}

func NewPetHandler(petService services.PetService, moderationService *services.ModerationService) *PetHandler {
	return &PetHandler{
		petService:        petService,
		moderationService: moderationService,
	}
}

func (h *PetHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreatePetRequest
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
			log.Printf("[CreatePet] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photos"))
			return
		}
		req.ImageURLs = approved
	}

	pet, err := h.petService.Create(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreatePet] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create pet"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(pet))
}

func (h *PetHandler) Get(w http.ResponseWriter, r *http.Request) {
	petID := chi.URLParam(r, "petId")

	pet, err := h.petService.GetByID(r.Context(), petID)
	if err != nil {
		if err == services.ErrPetNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Pet not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get pet"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pet))
}

func (h *PetHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	petID := chi.URLParam(r, "petId")

	var req models.UpdatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if h.moderationService != nil && req.ImageURLs != nil {
		approved, err := h.moderationService.ModerateMultiple(r.Context(), *req.ImageURLs, userID)
		if err != nil {
			if err == services.ErrImageRejected {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected: violates community guidelines"))
				return
			}
			log.Printf("[UpdatePet] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photos"))
			return
		}
		req.ImageURLs = &approved
	}

	pet, err := h.petService.Update(r.Context(), userID, petID, &req)
	if err != nil {
		if err == services.ErrPetNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Pet not found"))
			return
		}
		if err == services.ErrNotPetOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to update this pet"))
			return
		}
		log.Printf("[UpdatePet] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update pet"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pet))
}

func (h *PetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	petID := chi.URLParam(r, "petId")

	if _, err := h.petService.Delete(r.Context(), userID, petID); err != nil {
		if err == services.ErrPetNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Pet not found"))
			return
		}
		if err == services.ErrNotPetOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this pet"))
			return
		}
		log.Printf("[DeletePet] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete pet"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Pet deleted successfully"}))
}

func (h *PetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := &models.ListPetsQuery{
		Species: r.URL.Query().Get("species"),
		Breed:   r.URL.Query().Get("breed"),
		MaxAge:  queryInt(r, "max_age"),
		Limit:   queryInt(r, "limit"),
	}

	pets, err := h.petService.List(r.Context(), q)
	if err != nil {
		log.Printf("[ListPets] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list pets"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pets))
}

func (h *PetHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	pets, err := h.petService.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[ListMyPets] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list pets"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pets))
}

func (h *PetHandler) ListNearby(w http.ResponseWriter, r *http.Request) {
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

	pets, err := h.petService.ListNearby(r.Context(), lat, lng, radius)
	if err != nil {
		if err == services.ErrPetBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid radius"))
			return
		}
		log.Printf("[ListNearbyPets] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list nearby pets"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(pets))
}

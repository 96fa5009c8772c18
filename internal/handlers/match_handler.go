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

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// Create registers a match between the caller and another identity.
// Submitting the same pair twice returns the existing record.
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("user_id is required"))
		return
	}

	match, err := h.matchService.Create(r.Context(), userID, req.UserID)
	if err != nil {
		if err == services.ErrMatchBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid match request"))
			return
		}
		log.Printf("[CreateMatch] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create match"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(match))
}

func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	matches, err := h.matchService.ListFor(r.Context(), userID)
	if err != nil {
		log.Printf("[ListMatches] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list matches"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(matches))
}

// Delete unmatches the caller from another identity.
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	otherID := chi.URLParam(r, "userId")

	if err := h.matchService.Delete(r.Context(), userID, otherID); err != nil {
		if err == services.ErrMatchNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Match not found"))
			return
		}
		log.Printf("[DeleteMatch] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete match"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Match removed"}))
}

package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	petID := chi.URLParam(r, "petId")

	fav, err := h.favoriteService.Add(r.Context(), userID, petID)
	if err != nil {
		if err == services.ErrFavoriteBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid favorite request"))
			return
		}
		log.Printf("[AddFavorite] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to add favorite"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(fav))
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	petID := chi.URLParam(r, "petId")

	if err := h.favoriteService.Remove(r.Context(), userID, petID); err != nil {
		if err == services.ErrFavoriteNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Favorite not found"))
			return
		}
		log.Printf("[RemoveFavorite] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to remove favorite"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Favorite removed"}))
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	favs, err := h.favoriteService.ListFor(r.Context(), userID)
	if err != nil {
		log.Printf("[ListFavorites] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list favorites"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(favs))
}

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

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the caller's directory record, creating it on first request
// from the verified token claims.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	user, err := h.userService.GetOrCreate(
		r.Context(),
		userID,
		middleware.GetEmail(r.Context()),
		middleware.GetName(r.Context()),
		middleware.GetPicture(r.Context()),
	)
	if err != nil {
		log.Printf("[Me] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.UpsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	user, err := h.userService.Upsert(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[UpdateMe] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to update profile"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(user))
}

// GetPublic returns the public view of another user's record.
func (h *UserHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")

	user, err := h.userService.GetByID(r.Context(), targetID)
	if err != nil {
		if err == services.ErrUserNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("User not found"))
			return
		}
		log.Printf("[GetPublic] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load user"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.PublicUser{
		UserID:  user.UserID,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
	}))
}

package handlers

import (
	"log"
	"net/http"

	"github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

type AccountHandler struct {
	accountService services.AccountService
	media          *services.GCSMediaStorage
}

// NewAccountHandler takes an optional media storage; when present, blobs
// referenced by deleted records are cleaned up best-effort.
func NewAccountHandler(accountService services.AccountService, media *services.GCSMediaStorage) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		media:          media,
	}
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	mediaURLs, err := h.accountService.DeleteAccount(r.Context(), userID)
	if err != nil {
		log.Printf("[DeleteAccount] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete account"))
		return
	}

	if h.media != nil && len(mediaURLs) > 0 {
		h.media.DeleteAll(r.Context(), mediaURLs)
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Account deleted"}))
}

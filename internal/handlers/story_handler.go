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

type StoryHandler struct {
	storyService      services.StoryService
	moderationService *services.ModerationService
}

func NewStoryHandler(storyService services.StoryService, moderationService *services.ModerationService) *StoryHandler {
	return &StoryHandler{
		storyService:      storyService,
		moderationService: moderationService,
	}
}

func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	if h.moderationService != nil && req.ImageURL != "" {
		res, err := h.moderationService.ModerateAndPromote(r.Context(), req.ImageURL, userID)
		if err != nil {
			if err == services.ErrImageRejected {
				writeJSON(w, http.StatusUnprocessableEntity, models.NewErrorResponse("Photo rejected: violates community guidelines"))
				return
			}
			log.Printf("[CreateStory] Moderation error: %v", err)
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to process photo"))
			return
		}
		req.ImageURL = res.ApprovedURL
	}

	story, err := h.storyService.Create(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[CreateStory] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create story"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(story))
}

func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "storyId")

	story, err := h.storyService.GetByID(r.Context(), storyID)
	if err != nil {
		if err == services.ErrStoryNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Story not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get story"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(story))
}

func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	stories, err := h.storyService.List(r.Context(), queryInt(r, "limit"))
	if err != nil {
		log.Printf("[ListStories] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list stories"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stories))
}

func (h *StoryHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	stories, err := h.storyService.ListByOwner(r.Context(), userID)
	if err != nil {
		log.Printf("[ListMyStories] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list stories"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(stories))
}

func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	storyID := chi.URLParam(r, "storyId")

	if err := h.storyService.Delete(r.Context(), userID, storyID); err != nil {
		if err == services.ErrStoryNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Story not found"))
			return
		}
		if err == services.ErrNotStoryOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this story"))
			return
		}
		log.Printf("[DeleteStory] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete story"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Story deleted successfully"}))
}

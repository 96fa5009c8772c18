package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/realtime"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

type ChatHandler struct {
	chatService services.ChatService
	hub         *realtime.Hub
}

// NewChatHandler wires persistence and, when hub is non-nil, live relay of
// REST-sent messages to connected websocket clients.
func NewChatHandler(chatService services.ChatService, hub *realtime.Hub) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
	}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	msg, err := h.chatService.Send(r.Context(), userID, &req)
	if err != nil {
		if err == services.ErrChatBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid message"))
			return
		}
		log.Printf("[SendMessage] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to send message"))
		return
	}

	if h.hub != nil {
		realtime.RelayMessage(h.hub, msg)
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(msg))
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	otherID := chi.URLParam(r, "userId")

	msgs, err := h.chatService.History(r.Context(), userID, otherID)
	if err != nil {
		if err == services.ErrChatBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid history query"))
			return
		}
		log.Printf("[History] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load history"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(msgs))
}

// MarkRead flags every unread message from the given sender to the caller.
func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	senderID := chi.URLParam(r, "userId")

	n, err := h.chatService.MarkRead(r.Context(), senderID, userID)
	if err != nil {
		if err == services.ErrChatBadInput {
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid mark-read request"))
			return
		}
		log.Printf("[MarkRead] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to mark messages read"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]int64{"marked_read": n}))
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	messageID := chi.URLParam(r, "messageId")

	if err := h.chatService.Delete(r.Context(), userID, messageID); err != nil {
		if err == services.ErrMessageNotFound {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Message not found"))
			return
		}
		if err == services.ErrNotMessageOwner {
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Only the sender can delete a message"))
			return
		}
		log.Printf("[DeleteMessage] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete message"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Message deleted"}))
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	convs, err := h.chatService.ConversationsFor(r.Context(), userID)
	if err != nil {
		log.Printf("[Conversations] Service error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list conversations"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(convs))
}

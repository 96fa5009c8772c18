package realtime

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenVerifier resolves a bearer token to a user id. Browsers cannot set
// headers on websocket dials, so the token arrives as a query parameter.
type TokenVerifier func(ctx context.Context, token string) (string, error)

// ServeWS upgrades the HTTP connection, authenticates the user, registers
// the client with the hub, and starts the pumps.
func ServeWS(hub *Hub, chat services.ChatService, verify TokenVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		userID, err := verify(r.Context(), token)
		if err != nil || userID == "" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[realtime] upgrade failed: %v", err)
			return
		}

		client := newClient(hub, conn, userID, chat)
		hub.RegisterClient(client)

		go client.writePump()
		go client.readPump()
	}
}

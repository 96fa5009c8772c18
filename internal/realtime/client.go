package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/pairs"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection bound to an authenticated user.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID string
	chat   services.ChatService

	mu     sync.Mutex
	joined map[string]bool
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, chat services.ChatService) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		chat:   chat,
		joined: make(map[string]bool),
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// inbound is the envelope every client frame uses.
type inbound struct {
	Event      string `json:"event"`
	UserID1    string `json:"user_id1,omitempty"`
	UserID2    string `json:"user_id2,omitempty"`
	ReceiverID string `json:"receiver_id,omitempty"`
	Body       string `json:"body,omitempty"`
	MediaURL   string `json:"media_url,omitempty"`
	MediaType  string `json:"media_type,omitempty"`
	Typing     bool   `json:"typing,omitempty"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[realtime] read error user=%s: %v", c.userID, err)
			}
			return
		}

		var env inbound
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("invalid_json")
			continue
		}
		c.handleEvent(&env)
	}
}

func (c *Client) handleEvent(env *inbound) {
	switch env.Event {
	case "join_chat":
		c.handleJoinChat(env)
	case "join_personal":
		c.hub.JoinRoom(c.userID, c)
	case "send_message":
		c.handleSendMessage(env)
	case "typing":
		c.handleTyping(env)
	default:
		c.sendError("unsupported_event")
	}
}

// handleJoinChat subscribes the client to the conversation room for the
// two named participants. The room name derives from the canonical pair,
// so either participant joining names the same room.
func (c *Client) handleJoinChat(env *inbound) {
	if env.UserID1 == "" || env.UserID2 == "" {
		c.sendError("missing_fields")
		return
	}
	c.hub.JoinRoom(pairs.Key(env.UserID1, env.UserID2), c)
}

// handleSendMessage persists the message, echoes it into the chat room,
// and notifies the receiver's personal room so unread badges update even
// when the receiver has a different conversation open.
func (c *Client) handleSendMessage(env *inbound) {
	if env.ReceiverID == "" || env.Body == "" {
		c.sendError("missing_fields")
		return
	}

	msg, err := c.chat.Send(context.Background(), c.userID, &models.SendMessageRequest{
		ReceiverID: env.ReceiverID,
		Body:       env.Body,
		MediaURL:   env.MediaURL,
		MediaType:  env.MediaType,
	})
	if err != nil {
		log.Printf("[realtime] send failed user=%s: %v", c.userID, err)
		c.sendError("send_failed")
		return
	}

	RelayMessage(c.hub, msg)
}

// RelayMessage fans a persisted message out to its conversation room and
// to the receiver's personal room. Both events carry the same payload, so
// a client can handle either with the same decoder.
func RelayMessage(h *Hub, msg *models.ChatMessage) {
	emit := func(event, room string) {
		payload, err := json.Marshal(map[string]interface{}{
			"event":   event,
			"message": msg,
		})
		if err != nil {
			return
		}
		h.Emit(room, payload)
	}
	emit("receive_message", pairs.Key(msg.SenderID, msg.ReceiverID))
	emit("new_message_notification", msg.ReceiverID)
}

func (c *Client) handleTyping(env *inbound) {
	if env.ReceiverID == "" {
		c.sendError("missing_fields")
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event":   "typing_indicator",
		"user_id": c.userID,
		"typing":  env.Typing,
	})
	if err != nil {
		return
	}
	c.hub.EmitExcept(pairs.Key(c.userID, env.ReceiverID), c, payload)
}

func (c *Client) sendError(code string) {
	payload, _ := json.Marshal(map[string]string{"event": "error", "error": code})
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

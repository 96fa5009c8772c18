package realtime

import (
	"log"
	"sync"
)

// Hub routes payloads between websocket clients through named rooms. A
// chat room is the canonical pair key of the two participants; a personal
// room is the user's own id and receives cross-conversation notifications.
// One Hub is created per server instance and owns all room state.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomMessage

	done chan struct{}
}

type roomMessage struct {
	room    string
	exclude *Client // skip this client, nil to deliver to everyone
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run processes hub events until Stop is called. Callers start it once in
// its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case m := <-h.broadcast:
			h.deliver(m)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	close(h.done)
}

func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// JoinRoom subscribes a client to a room. Safe to call from client pumps.
func (h *Hub) JoinRoom(room string, c *Client) {
	if room == "" {
		return
	}

	h.mu.Lock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	h.mu.Unlock()

	c.mu.Lock()
	c.joined[room] = true
	c.mu.Unlock()

	log.Printf("[realtime] user %s joined room %s", c.userID, room)
}

// Emit sends a payload to every member of a room.
func (h *Hub) Emit(room string, payload []byte) {
	h.broadcast <- &roomMessage{room: room, payload: payload}
}

// EmitExcept sends a payload to every member of a room except one client,
// used for typing indicators so the typist never sees their own signal.
func (h *Hub) EmitExcept(room string, exclude *Client, payload []byte) {
	h.broadcast <- &roomMessage{room: room, exclude: exclude, payload: payload}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) addClient(c *Client) {
	// The personal room exists from the moment the client connects, so
	// notifications reach users who never opened a chat room.
	h.JoinRoom(c.userID, c)
	log.Printf("[realtime] client connected: %s", c.userID)
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.mu.Lock()
	joined := make([]string, 0, len(c.joined))
	for room := range c.joined {
		joined = append(joined, room)
	}
	c.mu.Unlock()

	for _, room := range joined {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	c.closeSend()
	log.Printf("[realtime] client disconnected: %s", c.userID)
}

func (h *Hub) deliver(m *roomMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[m.room]
	if !ok {
		return
	}
	for c := range members {
		if c == m.exclude {
			continue
		}
		select {
		case c.send <- m.payload:
		default:
			// Slow consumer: drop the connection rather than block
			// delivery to the rest of the room.
			delete(members, c)
			c.closeSend()
		}
	}
}

package realtime

import (
	"encoding/json"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
	"github.com/nikhil-rathour/TailMate-sub001/internal/pairs"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
)

func TestJoinChatTakesBothParticipantIDs(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	alice.handleEvent(&inbound{Event: "join_chat", UserID1: "alice", UserID2: "bob"})

	room := pairs.Key("alice", "bob")
	if h.RoomSize(room) != 1 {
		t.Fatalf("room size = %d, want 1", h.RoomSize(room))
	}

	h.Emit(room, []byte(`{"event":"receive_message"}`))
	recv(t, alice)
}

func TestJoinChatRejectsMissingParticipant(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	alice.handleEvent(&inbound{Event: "join_chat", UserID1: "alice"})

	var got map[string]string
	if err := json.Unmarshal(recv(t, alice), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["event"] != "error" || got["error"] != "missing_fields" {
		t.Fatalf("payload = %v", got)
	}
	if h.RoomSize(pairs.Key("alice", "")) != 0 {
		t.Fatal("half-specified join created a room")
	}
}

func TestRelayEmitsIdenticalPayloadToRoomAndPersonal(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	bobChat := testClient(h, "bob")
	bobPersonal := testClient(h, "bob")
	h.JoinRoom(pairs.Key("alice", "bob"), bobChat)
	h.JoinRoom("bob", bobPersonal)

	chat := services.NewMemoryChatService(nil, nil)
	alice := newClient(h, nil, "alice", chat)
	alice.handleSendMessage(&inbound{ReceiverID: "bob", Body: "hello"})

	var room, notif map[string]json.RawMessage
	if err := json.Unmarshal(recv(t, bobChat), &room); err != nil {
		t.Fatalf("unmarshal room payload: %v", err)
	}
	if err := json.Unmarshal(recv(t, bobPersonal), &notif); err != nil {
		t.Fatalf("unmarshal notification: %v", err)
	}

	if string(room["event"]) != `"receive_message"` {
		t.Fatalf("room event = %s", room["event"])
	}
	if string(notif["event"]) != `"new_message_notification"` {
		t.Fatalf("notification event = %s", notif["event"])
	}
	if string(room["message"]) != string(notif["message"]) {
		t.Fatalf("payloads differ:\nroom:  %s\nnotif: %s", room["message"], notif["message"])
	}

	var msg models.ChatMessage
	if err := json.Unmarshal(room["message"], &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.SenderID != "alice" || msg.ReceiverID != "bob" || msg.Body != "hello" {
		t.Fatalf("message = %+v", msg)
	}
}

func TestRelayReachesPersonalRoomWithoutChatRoom(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	bob := testClient(h, "bob")
	h.JoinRoom("bob", bob)

	RelayMessage(h, &models.ChatMessage{SenderID: "alice", ReceiverID: "bob", Body: "ping"})

	var got map[string]json.RawMessage
	if err := json.Unmarshal(recv(t, bob), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if string(got["event"]) != `"new_message_notification"` {
		t.Fatalf("event = %s", got["event"])
	}
}

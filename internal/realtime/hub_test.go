package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nikhil-rathour/TailMate-sub001/internal/pairs"
)

func testClient(h *Hub, userID string) *Client {
	return newClient(h, nil, userID, nil)
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func assertQuiet(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload := <-c.send:
		t.Fatalf("unexpected payload: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmitReachesAllRoomMembers(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	bob := testClient(h, "bob")

	room := pairs.Key("alice", "bob")
	h.JoinRoom(room, alice)
	h.JoinRoom(room, bob)

	h.Emit(room, []byte(`{"event":"receive_message"}`))

	for _, c := range []*Client{alice, bob} {
		var got map[string]interface{}
		if err := json.Unmarshal(recv(t, c), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got["event"] != "receive_message" {
			t.Fatalf("event = %v", got["event"])
		}
	}
}

func TestEmitDoesNotLeakAcrossRooms(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	carol := testClient(h, "carol")

	h.JoinRoom(pairs.Key("alice", "bob"), alice)
	h.JoinRoom(pairs.Key("carol", "dave"), carol)

	h.Emit(pairs.Key("alice", "bob"), []byte(`{"event":"receive_message"}`))

	recv(t, alice)
	assertQuiet(t, carol)
}

func TestEmitExceptSkipsSender(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	bob := testClient(h, "bob")

	room := pairs.Key("alice", "bob")
	h.JoinRoom(room, alice)
	h.JoinRoom(room, bob)

	h.EmitExcept(room, alice, []byte(`{"event":"typing_indicator"}`))

	recv(t, bob)
	assertQuiet(t, alice)
}

func TestRegisterJoinsPersonalRoom(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	bob := testClient(h, "bob")
	h.RegisterClient(bob)

	// Registration is async; wait for the personal room to exist.
	deadline := time.Now().Add(time.Second)
	for h.RoomSize("bob") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("personal room never materialized")
		}
		time.Sleep(5 * time.Millisecond)
	}

	h.Emit("bob", []byte(`{"event":"new_message_notification"}`))
	recv(t, bob)
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	alice := testClient(h, "alice")
	room := pairs.Key("alice", "bob")
	h.JoinRoom(room, alice)
	h.JoinRoom("alice", alice)

	h.UnregisterClient(alice)

	deadline := time.Now().Add(time.Second)
	for h.RoomSize(room) != 0 || h.RoomSize("alice") != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("rooms not cleaned up: chat=%d personal=%d", h.RoomSize(room), h.RoomSize("alice"))
		}
		time.Sleep(5 * time.Millisecond)
	}

	// The send channel is closed so pumps can exit.
	if _, ok := <-alice.send; ok {
		t.Fatal("send channel still open after unregister")
	}
}

func TestRoomNameIsOrderIndependent(t *testing.T) {
	if pairs.Key("alice", "bob") != pairs.Key("bob", "alice") {
		t.Fatal("room key depends on join order")
	}
}

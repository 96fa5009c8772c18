package services

import (
	"context"
	"testing"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func sendMsg(t *testing.T, s *MemoryChatService, from, to, body string) *models.ChatMessage {
	t.Helper()
	msg, err := s.Send(context.Background(), from, &models.SendMessageRequest{
		ReceiverID: to,
		Body:       body,
	})
	if err != nil {
		t.Fatalf("Send(%s -> %s): %v", from, to, err)
	}
	return msg
}

func TestHistoryIsPairScopedAndOrdered(t *testing.T) {
	s := NewMemoryChatService(nil, nil)
	ctx := context.Background()

	sendMsg(t, s, "alice", "bob", "hi bob")
	sendMsg(t, s, "bob", "alice", "hi alice")
	sendMsg(t, s, "alice", "carol", "hi carol")
	sendMsg(t, s, "alice", "bob", "how is rex?")

	got, err := s.History(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("history has %d messages, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.Before(got[i-1].CreatedAt) {
			t.Fatal("history not in chronological order")
		}
	}
	for _, m := range got {
		if m.SenderID == "carol" || m.ReceiverID == "carol" {
			t.Fatal("history leaked another conversation")
		}
	}
}

func TestMarkReadCountsOnlyUnreadFromSender(t *testing.T) {
	s := NewMemoryChatService(nil, nil)
	ctx := context.Background()

	sendMsg(t, s, "alice", "bob", "one")
	sendMsg(t, s, "alice", "bob", "two")
	sendMsg(t, s, "bob", "alice", "reply")

	n, err := s.MarkRead(ctx, "alice", "bob")
	if err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if n != 2 {
		t.Fatalf("marked %d messages, want 2", n)
	}

	// Already read; a second pass touches nothing.
	n, _ = s.MarkRead(ctx, "alice", "bob")
	if n != 0 {
		t.Fatalf("second MarkRead marked %d, want 0", n)
	}

	hist, _ := s.History(ctx, "alice", "bob")
	for _, m := range hist {
		if m.SenderID == "alice" && !m.IsRead {
			t.Fatal("message from alice still unread")
		}
		if m.SenderID == "bob" && m.IsRead {
			t.Fatal("bob's reply was wrongly marked read")
		}
	}
}

func TestDeleteIsSoftAndSenderOnly(t *testing.T) {
	s := NewMemoryChatService(nil, nil)
	ctx := context.Background()

	msg := sendMsg(t, s, "alice", "bob", "oops")

	if err := s.Delete(ctx, "bob", msg.ID); err != ErrNotMessageOwner {
		t.Fatalf("receiver delete err = %v, want ErrNotMessageOwner", err)
	}
	if err := s.Delete(ctx, "alice", msg.ID); err != nil {
		t.Fatalf("sender delete: %v", err)
	}
	if err := s.Delete(ctx, "alice", "no-such-id"); err != ErrMessageNotFound {
		t.Fatalf("missing delete err = %v, want ErrMessageNotFound", err)
	}

	hist, _ := s.History(ctx, "alice", "bob")
	if len(hist) != 0 {
		t.Fatalf("deleted message still in history: %d entries", len(hist))
	}
}

func TestConversationsGroupByCounterpart(t *testing.T) {
	dir := &fakeDirectory{users: map[string]*models.User{
		"bob":   {UserID: "bob", Name: "Bob", Picture: "bob.png"},
		"carol": {UserID: "carol", Name: "Carol"},
	}}
	s := NewMemoryChatService(dir, nil)
	ctx := context.Background()

	sendMsg(t, s, "bob", "alice", "first")
	sendMsg(t, s, "bob", "alice", "second")
	sendMsg(t, s, "alice", "carol", "hey")
	sendMsg(t, s, "carol", "alice", "hello back")

	convs, err := s.ConversationsFor(ctx, "alice")
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("got %d conversations, want 2", len(convs))
	}

	// Most recent conversation first.
	if convs[0].PartnerID != "carol" {
		t.Fatalf("first conversation partner = %s, want carol", convs[0].PartnerID)
	}
	if convs[0].LastMessage != "hello back" {
		t.Fatalf("carol last message = %q", convs[0].LastMessage)
	}

	var bobConv *models.Conversation
	for _, c := range convs {
		if c.PartnerID == "bob" {
			bobConv = c
		}
	}
	if bobConv == nil {
		t.Fatal("bob conversation missing")
	}
	if bobConv.UnreadCount != 2 {
		t.Fatalf("bob unread = %d, want 2", bobConv.UnreadCount)
	}
	if bobConv.PartnerName != "Bob" || bobConv.PartnerPicture != "bob.png" {
		t.Fatalf("bob metadata not enriched: %+v", bobConv)
	}
}

func TestConversationsTolerateMissingDirectoryRecord(t *testing.T) {
	s := NewMemoryChatService(&fakeDirectory{users: map[string]*models.User{}}, nil)
	ctx := context.Background()

	sendMsg(t, s, "ghost", "alice", "boo")

	convs, err := s.ConversationsFor(ctx, "alice")
	if err != nil {
		t.Fatalf("ConversationsFor: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("got %d conversations, want 1", len(convs))
	}
	if convs[0].PartnerID != "ghost" || convs[0].PartnerName != "" {
		t.Fatalf("unexpected conversation: %+v", convs[0])
	}
}

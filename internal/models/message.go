package models

import (
	"time"
)

// Media kinds attached to chat messages.
const (
	MediaImage = "IMAGE"
	MediaVideo = "VIDEO"
)

// ChatMessage is one entry in the ordered log between two identities.
// Deletion is logical only; history filters deleted messages out.
type ChatMessage struct {
	ID         string    `json:"id" bson:"_id"`
	SenderID   string    `json:"sender_id" bson:"sender_id"`
	ReceiverID string    `json:"receiver_id" bson:"receiver_id"`
	Body       string    `json:"body" bson:"body"`
	MediaURL   string    `json:"media_url,omitempty" bson:"media_url,omitempty"`
	MediaType  string    `json:"media_type,omitempty" bson:"media_type,omitempty"`
	IsRead     bool      `json:"is_read" bson:"is_read"`
	IsDeleted  bool      `json:"is_deleted" bson:"is_deleted"`
	IsSent     bool      `json:"is_sent" bson:"is_sent"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
	MediaURL   string `json:"media_url"`
	MediaType  string `json:"media_type"`
}

func (r *SendMessageRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ReceiverID == "" {
		errors["receiver_id"] = "Receiver is required"
	}
	if r.Body == "" {
		errors["body"] = "Message body is required"
	}
	if r.MediaType != "" && r.MediaType != MediaImage && r.MediaType != MediaVideo {
		errors["media_type"] = "Media type must be IMAGE or VIDEO"
	}

	return errors
}

// Conversation summarizes the latest exchange with one counterpart.
type Conversation struct {
	PartnerID      string    `json:"partner_id"`
	PartnerName    string    `json:"partner_name,omitempty"`
	PartnerPicture string    `json:"partner_picture,omitempty"`
	LastMessage    string    `json:"last_message"`
	LastMessageAt  time.Time `json:"last_message_at"`
	UnreadCount    int       `json:"unread_count"`
}

package services

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

type MongoChatService struct {
	client      *mongo.Client
	db          *mongo.Database
	messagesCol *mongo.Collection
	users       UserDirectory
}

func NewMongoChatService(ctx context.Context, mongoURI, dbName string, users UserDirectory) (*MongoChatService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	col := db.Collection("messages")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	log.Printf("MongoDB connected (messages): db=%s", dbName)
	return &MongoChatService{
		client:      client,
		db:          db,
		messagesCol: col,
		users:       users,
	}, nil
}

func (s *MongoChatService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoChatService) Send(ctx context.Context, senderID string, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	if senderID == "" || req.ReceiverID == "" || req.Body == "" {
		return nil, ErrChatBadInput
	}

	now := time.Now()
	msg := &models.ChatMessage{
		ID:         uuid.New().String(),
		SenderID:   senderID,
		ReceiverID: req.ReceiverID,
		Body:       req.Body,
		MediaURL:   req.MediaURL,
		MediaType:  req.MediaType,
		IsRead:     false,
		IsDeleted:  false,
		IsSent:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := s.messagesCol.InsertOne(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func pairFilter(idA, idB string) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"sender_id": idA, "receiver_id": idB},
			{"sender_id": idB, "receiver_id": idA},
		},
	}
}

func (s *MongoChatService) History(ctx context.Context, idA, idB string) ([]*models.ChatMessage, error) {
	if idA == "" || idB == "" {
		return nil, ErrChatBadInput
	}

	filter := pairFilter(idA, idB)
	filter["is_deleted"] = false

	cur, err := s.messagesCol.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.ChatMessage, 0)
	for cur.Next(ctx) {
		var m models.ChatMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		msg := m
		out = append(out, &msg)
	}
	return out, cur.Err()
}

func (s *MongoChatService) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	if senderID == "" || receiverID == "" {
		return 0, ErrChatBadInput
	}

	res, err := s.messagesCol.UpdateMany(
		ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *MongoChatService) Delete(ctx context.Context, actorID, messageID string) error {
	var msg models.ChatMessage
	if err := s.messagesCol.FindOne(ctx, bson.M{"_id": messageID}).Decode(&msg); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrMessageNotFound
		}
		return err
	}
	if msg.SenderID != actorID {
		return ErrNotMessageOwner
	}

	_, err := s.messagesCol.UpdateOne(
		ctx,
		bson.M{"_id": messageID},
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now()}},
	)
	return err
}

func (s *MongoChatService) ConversationsFor(ctx context.Context, id string) ([]*models.Conversation, error) {
	if id == "" {
		return nil, ErrChatBadInput
	}

	cur, err := s.messagesCol.Find(
		ctx,
		bson.M{
			"is_deleted": false,
			"$or":        []bson.M{{"sender_id": id}, {"receiver_id": id}},
		},
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	msgs := make([]*models.ChatMessage, 0)
	for cur.Next(ctx) {
		var m models.ChatMessage
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		msg := m
		msgs = append(msgs, &msg)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return buildConversations(ctx, id, msgs, s.users), nil
}

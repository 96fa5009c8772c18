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

type MongoStoryService struct {
	client     *mongo.Client
	db         *mongo.Database
	storiesCol *mongo.Collection
}

func NewMongoStoryService(ctx context.Context, mongoURI, dbName string) (*MongoStoryService, error) {
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
	col := db.Collection("stories")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})

	log.Printf("MongoDB connected (stories): db=%s", dbName)
	return &MongoStoryService{
		client:     client,
		db:         db,
		storiesCol: col,
	}, nil
}

func (s *MongoStoryService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStoryService) Create(ctx context.Context, ownerID string, req *models.CreateStoryRequest) (*models.Story, error) {
	if ownerID == "" {
		return nil, ErrStoryBadInput
	}

	now := time.Now()
	story := &models.Story{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.storiesCol.InsertOne(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *MongoStoryService) GetByID(ctx context.Context, id string) (*models.Story, error) {
	var story models.Story
	if err := s.storiesCol.FindOne(ctx, bson.M{"_id": id}).Decode(&story); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return &story, nil
}

func (s *MongoStoryService) List(ctx context.Context, limit int) ([]*models.Story, error) {
	if limit <= 0 {
		limit = defaultStoryListLimit
	}

	cur, err := s.storiesCol.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeStories(ctx, cur)
}

func (s *MongoStoryService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Story, error) {
	cur, err := s.storiesCol.Find(
		ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodeStories(ctx, cur)
}

func (s *MongoStoryService) Delete(ctx context.Context, ownerID, id string) error {
	story, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if story.OwnerID != ownerID {
		return ErrNotStoryOwner
	}

	_, err = s.storiesCol.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func decodeStories(ctx context.Context, cur *mongo.Cursor) ([]*models.Story, error) {
	out := make([]*models.Story, 0)
	for cur.Next(ctx) {
		var st models.Story
		if err := cur.Decode(&st); err != nil {
			return nil, err
		}
		story := st
		out = append(out, &story)
	}
	return out, cur.Err()
}

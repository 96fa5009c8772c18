package services

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

var ErrFlagBadInput = errors.New("invalid flag input")

// FlagService accumulates moderation strikes against users whose uploads
// fail the image safety check.
type FlagService interface {
	AddStrike(ctx context.Context, userID string) (*models.UserFlag, error)
	Get(ctx context.Context, userID string) (*models.UserFlag, error)
}

type MemoryFlagService struct {
	mu    sync.RWMutex
	flags map[string]*models.UserFlag
}

func NewMemoryFlagService() *MemoryFlagService {
	return &MemoryFlagService{flags: make(map[string]*models.UserFlag)}
}

func (s *MemoryFlagService) AddStrike(ctx context.Context, userID string) (*models.UserFlag, error) {
	if userID == "" {
		return nil, ErrFlagBadInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	f, ok := s.flags[userID]
	if !ok {
		f = &models.UserFlag{UserID: userID}
		s.flags[userID] = f
	}
	f.Strikes++
	f.LastStrikeAt = now
	f.UpdatedAt = now
	return f, nil
}

func (s *MemoryFlagService) Get(ctx context.Context, userID string) (*models.UserFlag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.flags[userID]
	if !ok {
		return &models.UserFlag{UserID: userID}, nil
	}
	return f, nil
}

func (s *MemoryFlagService) remove(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, userID)
}

type MongoFlagService struct {
	client   *mongo.Client
	db       *mongo.Database
	flagsCol *mongo.Collection
}

func NewMongoFlagService(ctx context.Context, mongoURI, dbName string) (*MongoFlagService, error) {
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
	col := db.Collection("user_flags")

	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	log.Printf("MongoDB connected (user_flags): db=%s", dbName)
	return &MongoFlagService{
		client:   client,
		db:       db,
		flagsCol: col,
	}, nil
}

func (s *MongoFlagService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoFlagService) AddStrike(ctx context.Context, userID string) (*models.UserFlag, error) {
	if userID == "" {
		return nil, ErrFlagBadInput
	}

	now := time.Now()
	res := s.flagsCol.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$inc": bson.M{"strikes": 1},
			"$set": bson.M{"last_strike_at": now, "updated_at": now},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var f models.UserFlag
	if err := res.Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *MongoFlagService) Get(ctx context.Context, userID string) (*models.UserFlag, error) {
	var f models.UserFlag
	if err := s.flagsCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return &models.UserFlag{UserID: userID}, nil
		}
		return nil, err
	}
	return &f, nil
}

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
	"github.com/nikhil-rathour/TailMate-sub001/internal/pairs"
)

type MongoMatchService struct {
	client     *mongo.Client
	db         *mongo.Database
	matchesCol *mongo.Collection
	users      UserDirectory
	profiles   ProfileResolver
}

func NewMongoMatchService(ctx context.Context, mongoURI, dbName string, users UserDirectory, profiles ProfileResolver) (*MongoMatchService, error) {
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
	col := db.Collection("matches")

	// The unique index is on the canonical pair key, so reversed submission
	// order hits the same constraint and the check-then-insert race can only
	// produce a duplicate-key error, never a second record.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "user_a", Value: 1}}},
		{Keys: bson.D{{Key: "user_b", Value: 1}}},
	})

	log.Printf("MongoDB connected (matches): db=%s", dbName)
	return &MongoMatchService{
		client:     client,
		db:         db,
		matchesCol: col,
		users:      users,
		profiles:   profiles,
	}, nil
}

func (s *MongoMatchService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoMatchService) Create(ctx context.Context, idA, idB string) (*models.Match, error) {
	if idA == "" || idB == "" || idA == idB {
		return nil, ErrMatchBadInput
	}

	key := pairs.Key(idA, idB)

	var existing models.Match
	err := s.matchesCol.FindOne(ctx, bson.M{"pair_key": key}).Decode(&existing)
	if err == nil {
		return &existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	lo, hi := pairs.Canonical(idA, idB)
	now := time.Now()
	m := &models.Match{
		ID:        uuid.New().String(),
		PairKey:   key,
		UserA:     lo,
		UserB:     hi,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.matchesCol.InsertOne(ctx, m); err != nil {
		// Concurrent create from the other side won the race; return theirs.
		if mongo.IsDuplicateKeyError(err) {
			var retry models.Match
			if err2 := s.matchesCol.FindOne(ctx, bson.M{"pair_key": key}).Decode(&retry); err2 == nil {
				return &retry, nil
			}
		}
		return nil, err
	}
	return m, nil
}

func (s *MongoMatchService) ListFor(ctx context.Context, id string) ([]*models.MatchWithUser, error) {
	if id == "" {
		return nil, ErrMatchBadInput
	}

	cur, err := s.matchesCol.Find(
		ctx,
		bson.M{"$or": []bson.M{{"user_a": id}, {"user_b": id}}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.MatchWithUser, 0)
	for cur.Next(ctx) {
		var m models.Match
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &models.MatchWithUser{
			Match:   m,
			Partner: resolveCounterpart(ctx, s.users, s.profiles, m.Counterpart(id)),
		})
	}
	return out, cur.Err()
}

func (s *MongoMatchService) Delete(ctx context.Context, idA, idB string) error {
	_, err := s.matchesCol.DeleteOne(ctx, bson.M{"pair_key": pairs.Key(idA, idB)})
	return err
}

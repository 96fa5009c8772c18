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

type MongoFavoriteService struct {
	client  *mongo.Client
	db      *mongo.Database
	favsCol *mongo.Collection
	pets    PetLookup
}

func NewMongoFavoriteService(ctx context.Context, mongoURI, dbName string, pets PetLookup) (*MongoFavoriteService, error) {
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
	col := db.Collection("favorites")

	// The unique compound index makes Add idempotent under races.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "pet_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})

	log.Printf("MongoDB connected (favorites): db=%s", dbName)
	return &MongoFavoriteService{
		client:  client,
		db:      db,
		favsCol: col,
		pets:    pets,
	}, nil
}

func (s *MongoFavoriteService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoFavoriteService) Add(ctx context.Context, userID, petID string) (*models.Favorite, error) {
	if userID == "" || petID == "" {
		return nil, ErrFavoriteBadInput
	}

	filter := bson.M{"user_id": userID, "pet_id": petID}

	var existing models.Favorite
	if err := s.favsCol.FindOne(ctx, filter).Decode(&existing); err == nil {
		return &existing, nil
	}

	fav := &models.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		PetID:     petID,
		CreatedAt: time.Now(),
	}
	if _, err := s.favsCol.InsertOne(ctx, fav); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			var retry models.Favorite
			if err2 := s.favsCol.FindOne(ctx, filter).Decode(&retry); err2 == nil {
				return &retry, nil
			}
		}
		return nil, err
	}
	return fav, nil
}

func (s *MongoFavoriteService) Remove(ctx context.Context, userID, petID string) error {
	res, err := s.favsCol.DeleteOne(ctx, bson.M{"user_id": userID, "pet_id": petID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (s *MongoFavoriteService) ListFor(ctx context.Context, userID string) ([]*models.FavoriteWithPet, error) {
	cur, err := s.favsCol.Find(
		ctx,
		bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	favs := make([]*models.Favorite, 0)
	for cur.Next(ctx) {
		var f models.Favorite
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		fav := f
		favs = append(favs, &fav)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return enrichFavorites(ctx, favs, s.pets), nil
}

func (s *MongoFavoriteService) IsFavorite(ctx context.Context, userID, petID string) (bool, error) {
	n, err := s.favsCol.CountDocuments(ctx, bson.M{"user_id": userID, "pet_id": petID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

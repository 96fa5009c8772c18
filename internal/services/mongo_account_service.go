package services

import (
	"context"
	"crypto/tls"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

type MongoAccountService struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoAccountService(ctx context.Context, mongoURI, dbName string) (*MongoAccountService, error) {
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

	log.Printf("MongoDB connected (account): db=%s", dbName)
	return &MongoAccountService{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

func (s *MongoAccountService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// DeleteAccount walks the user's footprint collection by collection.
// Messages are kept for counterparts but stripped of readable identity by
// the soft-delete flag; everything else is removed outright.
func (s *MongoAccountService) DeleteAccount(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, ErrAccountBadInput
	}

	mediaURLs := make([]string, 0)

	// Pets and their images.
	petsCol := s.db.Collection("pets")
	cur, err := petsCol.Find(ctx, bson.M{"owner_id": userID})
	if err != nil {
		return nil, err
	}
	for cur.Next(ctx) {
		var doc mongoPetDoc
		if err := cur.Decode(&doc); err != nil {
			cur.Close(ctx)
			return nil, err
		}
		mediaURLs = append(mediaURLs, doc.ImageURLs...)
	}
	cur.Close(ctx)
	if _, err := petsCol.DeleteMany(ctx, bson.M{"owner_id": userID}); err != nil {
		return nil, err
	}

	// Dating profile and its images.
	profilesCol := s.db.Collection("dating_profiles")
	var profile models.DatingProfile
	if err := profilesCol.FindOne(ctx, bson.M{"owner_id": userID}).Decode(&profile); err == nil {
		mediaURLs = append(mediaURLs, profile.ImageURLs...)
		if _, err := profilesCol.DeleteOne(ctx, bson.M{"owner_id": userID}); err != nil {
			return nil, err
		}
		// Other profiles may still reference this one in their lists.
		_, _ = profilesCol.UpdateMany(ctx, bson.M{}, bson.M{"$pull": bson.M{
			"likes":   profile.ID,
			"passes":  profile.ID,
			"matches": profile.ID,
		}})
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Stories and their images.
	storiesCol := s.db.Collection("stories")
	scur, err := storiesCol.Find(ctx, bson.M{"owner_id": userID})
	if err != nil {
		return nil, err
	}
	for scur.Next(ctx) {
		var st models.Story
		if err := scur.Decode(&st); err != nil {
			scur.Close(ctx)
			return nil, err
		}
		if st.ImageURL != "" {
			mediaURLs = append(mediaURLs, st.ImageURL)
		}
	}
	scur.Close(ctx)
	if _, err := storiesCol.DeleteMany(ctx, bson.M{"owner_id": userID}); err != nil {
		return nil, err
	}

	// Match records touching the user.
	if _, err := s.db.Collection("matches").DeleteMany(ctx, bson.M{
		"$or": []bson.M{{"user_a": userID}, {"user_b": userID}},
	}); err != nil {
		return nil, err
	}

	// Messages are soft-deleted so counterpart history stays coherent.
	if _, err := s.db.Collection("messages").UpdateMany(
		ctx,
		bson.M{"$or": []bson.M{{"sender_id": userID}, {"receiver_id": userID}}},
		bson.M{"$set": bson.M{"is_deleted": true}},
	); err != nil {
		return nil, err
	}

	// Favorites, flags, directory record.
	if _, err := s.db.Collection("favorites").DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, err
	}
	if _, err := s.db.Collection("user_flags").DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, err
	}
	if _, err := s.db.Collection("users").DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, err
	}

	log.Printf("[AccountService] deleted account %s (%d media files to clean)", userID, len(mediaURLs))
	return mediaURLs, nil
}

package services

import (
	"context"
	"crypto/tls"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

type MongoDatingService struct {
	client      *mongo.Client
	db          *mongo.Database
	profilesCol *mongo.Collection
}

func NewMongoDatingService(ctx context.Context, mongoURI, dbName string) (*MongoDatingService, error) {
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
	col := db.Collection("dating_profiles")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "geo", Value: "2dsphere"}}},
	})

	log.Printf("MongoDB connected (dating_profiles): db=%s", dbName)
	return &MongoDatingService{
		client:      client,
		db:          db,
		profilesCol: col,
	}, nil
}

func (s *MongoDatingService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoDatingService) Create(ctx context.Context, ownerID string, req *models.CreateDatingProfileRequest) (*models.DatingProfile, error) {
	if ownerID == "" {
		return nil, ErrDatingBadInput
	}

	now := time.Now()
	prof := &models.DatingProfile{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		PetName:       req.PetName,
		Age:           req.Age,
		Gender:        req.Gender,
		Bio:           req.Bio,
		Location:      req.Location,
		ImageURLs:     req.ImageURLs,
		Likes:         []string{},
		Passes:        []string{},
		Matches:       []string{},
		IsOwnerDating: true,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Latitude != nil && req.Longitude != nil {
		prof.Geo = models.NewGeoPoint(*req.Latitude, *req.Longitude)
	}

	if _, err := s.profilesCol.InsertOne(ctx, prof); err != nil {
		// The owner_id unique index rejects a second profile per owner.
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return prof, nil
}

func (s *MongoDatingService) GetByOwner(ctx context.Context, ownerID string) (*models.DatingProfile, error) {
	var prof models.DatingProfile
	if err := s.profilesCol.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoDatingService) GetByID(ctx context.Context, profileID string) (*models.DatingProfile, error) {
	var prof models.DatingProfile
	if err := s.profilesCol.FindOne(ctx, bson.M{"_id": profileID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoDatingService) Update(ctx context.Context, ownerID string, req *models.UpdateDatingProfileRequest) (*models.DatingProfile, error) {
	set := bson.M{"updated_at": time.Now()}
	if req.PetName != nil {
		set["pet_name"] = *req.PetName
	}
	if req.Age != nil {
		set["age"] = *req.Age
	}
	if req.Gender != nil {
		set["gender"] = *req.Gender
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.ImageURLs != nil {
		set["image_urls"] = *req.ImageURLs
	}
	if req.Latitude != nil && req.Longitude != nil {
		set["geo"] = models.NewGeoPoint(*req.Latitude, *req.Longitude)
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"owner_id": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var prof models.DatingProfile
	if err := res.Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoDatingService) Delete(ctx context.Context, ownerID string) error {
	res, err := s.profilesCol.DeleteOne(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// Like records the actor's like with $addToSet so concurrent likes on the
// same document never lose an update, then checks the target's likes for
// reciprocity and records the match on both sides the same way.
func (s *MongoDatingService) Like(ctx context.Context, actorID, targetProfileID string) (bool, error) {
	actor, err := s.GetByOwner(ctx, actorID)
	if err != nil {
		return false, err
	}
	target, err := s.GetByID(ctx, targetProfileID)
	if err != nil {
		return false, err
	}
	if target.ID == actor.ID {
		return false, ErrSelfAction
	}

	now := time.Now()
	if _, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": actor.ID}, bson.M{
		"$addToSet": bson.M{"likes": target.ID},
		"$set":      bson.M{"updated_at": now},
	}); err != nil {
		return false, err
	}

	if !containsString(target.Likes, actor.ID) {
		return false, nil
	}

	// Mutual like. Both appends are idempotent.
	if _, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": actor.ID}, bson.M{
		"$addToSet": bson.M{"matches": target.ID},
		"$set":      bson.M{"updated_at": now},
	}); err != nil {
		return true, err
	}
	if _, err := s.profilesCol.UpdateOne(ctx, bson.M{"_id": target.ID}, bson.M{
		"$addToSet": bson.M{"matches": actor.ID},
		"$set":      bson.M{"updated_at": now},
	}); err != nil {
		return true, err
	}
	return true, nil
}

func (s *MongoDatingService) Pass(ctx context.Context, actorID, targetProfileID string) error {
	actor, err := s.GetByOwner(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.GetByID(ctx, targetProfileID)
	if err != nil {
		return err
	}
	if target.ID == actor.ID {
		return ErrSelfAction
	}

	_, err = s.profilesCol.UpdateOne(ctx, bson.M{"_id": actor.ID}, bson.M{
		"$addToSet": bson.M{"passes": target.ID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	return err
}

func (s *MongoDatingService) ToggleActive(ctx context.Context, actorID string) (*models.DatingProfile, error) {
	prof, err := s.GetByOwner(ctx, actorID)
	if err != nil {
		return nil, err
	}

	res := s.profilesCol.FindOneAndUpdate(
		ctx,
		bson.M{"_id": prof.ID},
		bson.M{"$set": bson.M{"is_active": !prof.IsActive, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var out models.DatingProfile
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Nearby prefilters with a $centerSphere geo query, then sorts by haversine
// distance in memory, nearest first, capped at nearbyProfileLimit.
func (s *MongoDatingService) Nearby(ctx context.Context, q *models.NearbyProfilesQuery) ([]*models.NearbyProfile, error) {
	if q.RadiusM <= 0 {
		return nil, ErrDatingBadInput
	}

	filter := bson.M{
		"is_owner_dating": true,
		"is_active":       true,
		"geo": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{q.Longitude, q.Latitude},
					q.RadiusM / earthRadiusM,
				},
			},
		},
	}
	if q.Gender != "" {
		filter["gender"] = q.Gender
	}
	if q.MinAge > 0 || q.MaxAge > 0 {
		age := bson.M{}
		if q.MinAge > 0 {
			age["$gte"] = q.MinAge
		}
		if q.MaxAge > 0 {
			age["$lte"] = q.MaxAge
		}
		filter["age"] = age
	}

	cur, err := s.profilesCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	results := make([]*models.NearbyProfile, 0)
	for cur.Next(ctx) {
		var p models.DatingProfile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		d := HaversineM(q.Latitude, q.Longitude, p.Geo.Lat(), p.Geo.Lng())
		if d > q.RadiusM {
			continue
		}
		prof := p
		results = append(results, &models.NearbyProfile{Profile: &prof, DistanceM: d})
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceM < results[j].DistanceM
	})
	if len(results) > nearbyProfileLimit {
		results = results[:nearbyProfileLimit]
	}
	return results, nil
}

func (s *MongoDatingService) ListMatchedProfiles(ctx context.Context, ownerID string) ([]*models.DatingProfile, error) {
	prof, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(prof.Matches) == 0 {
		return []*models.DatingProfile{}, nil
	}

	cur, err := s.profilesCol.Find(ctx, bson.M{"_id": bson.M{"$in": prof.Matches}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.DatingProfile, 0, len(prof.Matches))
	for cur.Next(ctx) {
		var p models.DatingProfile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		m := p
		out = append(out, &m)
	}
	return out, cur.Err()
}

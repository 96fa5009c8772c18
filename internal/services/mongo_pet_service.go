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

// mongoPetDoc mirrors models.Pet with an extra GeoJSON point so the
// 2dsphere index can serve radius queries.
type mongoPetDoc struct {
	ID          string           `bson:"_id"`
	OwnerID     string           `bson:"owner_id"`
	Name        string           `bson:"name"`
	Species     string           `bson:"species"`
	Breed       string           `bson:"breed"`
	Age         int              `bson:"age"`
	Gender      string           `bson:"gender"`
	Price       float64          `bson:"price"`
	Description string           `bson:"description"`
	ImageURLs   []string         `bson:"image_urls"`
	Address     string           `bson:"address"`
	Latitude    float64          `bson:"latitude"`
	Longitude   float64          `bson:"longitude"`
	Location    *models.GeoPoint `bson:"location,omitempty"`
	IsAdopted   bool             `bson:"is_adopted"`
	CreatedAt   time.Time        `bson:"created_at"`
	UpdatedAt   time.Time        `bson:"updated_at"`
}

func petToDoc(p *models.Pet) *mongoPetDoc {
	doc := &mongoPetDoc{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         p.Age,
		Gender:      p.Gender,
		Price:       p.Price,
		Description: p.Description,
		ImageURLs:   p.ImageURLs,
		Address:     p.Address,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
		IsAdopted:   p.IsAdopted,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Latitude != 0 || p.Longitude != 0 {
		doc.Location = models.NewGeoPoint(p.Latitude, p.Longitude)
	}
	return doc
}

func docToPet(d *mongoPetDoc) *models.Pet {
	return &models.Pet{
		ID:          d.ID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Species:     d.Species,
		Breed:       d.Breed,
		Age:         d.Age,
		Gender:      d.Gender,
		Price:       d.Price,
		Description: d.Description,
		ImageURLs:   d.ImageURLs,
		Address:     d.Address,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		IsAdopted:   d.IsAdopted,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type MongoPetService struct {
	client  *mongo.Client
	db      *mongo.Database
	petsCol *mongo.Collection
}

func NewMongoPetService(ctx context.Context, mongoURI, dbName string) (*MongoPetService, error) {
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
	col := db.Collection("pets")

	// Best-effort indexes.
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "species", Value: 1}, {Key: "breed", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
	})

	log.Printf("MongoDB connected (pets): db=%s", dbName)
	return &MongoPetService{
		client:  client,
		db:      db,
		petsCol: col,
	}, nil
}

func (s *MongoPetService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoPetService) Create(ctx context.Context, ownerID string, req *models.CreatePetRequest) (*models.Pet, error) {
	if ownerID == "" {
		return nil, ErrPetBadInput
	}

	now := time.Now()
	pet := &models.Pet{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Age:         req.Age,
		Gender:      req.Gender,
		Price:       req.Price,
		Description: req.Description,
		ImageURLs:   req.ImageURLs,
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.petsCol.InsertOne(ctx, petToDoc(pet)); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *MongoPetService) GetByID(ctx context.Context, id string) (*models.Pet, error) {
	var doc mongoPetDoc
	if err := s.petsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPetNotFound
		}
		return nil, err
	}
	return docToPet(&doc), nil
}

func (s *MongoPetService) Update(ctx context.Context, ownerID, id string, req *models.UpdatePetRequest) (*models.Pet, error) {
	pet, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, ErrNotPetOwner
	}

	applyPetUpdate(pet, req)
	pet.UpdatedAt = time.Now()

	if _, err := s.petsCol.ReplaceOne(ctx, bson.M{"_id": id}, petToDoc(pet)); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *MongoPetService) Delete(ctx context.Context, ownerID, id string) (*models.Pet, error) {
	pet, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pet.OwnerID != ownerID {
		return nil, ErrNotPetOwner
	}

	if _, err := s.petsCol.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, err
	}
	return pet, nil
}

func (s *MongoPetService) List(ctx context.Context, q *models.ListPetsQuery) ([]*models.Pet, error) {
	filter := bson.M{}
	limit := int64(defaultPetListLimit)
	if q != nil {
		if q.Species != "" {
			filter["species"] = q.Species
		}
		if q.Breed != "" {
			filter["breed"] = q.Breed
		}
		if q.MaxAge > 0 {
			filter["age"] = bson.M{"$lte": q.MaxAge}
		}
		if q.Limit > 0 {
			limit = int64(q.Limit)
		}
	}

	cur, err := s.petsCol.Find(
		ctx,
		filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodePets(ctx, cur)
}

func (s *MongoPetService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Pet, error) {
	cur, err := s.petsCol.Find(
		ctx,
		bson.M{"owner_id": ownerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	return decodePets(ctx, cur)
}

func (s *MongoPetService) ListNearby(ctx context.Context, lat, lng, radiusM float64) ([]*models.Pet, error) {
	if radiusM <= 0 {
		return nil, ErrPetBadInput
	}

	filter := bson.M{
		"is_adopted": false,
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": []interface{}{
					[]float64{lng, lat},
					radiusM / earthRadiusM,
				},
			},
		},
	}

	cur, err := s.petsCol.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	pets, err := decodePets(ctx, cur)
	if err != nil {
		return nil, err
	}

	sort.Slice(pets, func(i, j int) bool {
		di := HaversineM(lat, lng, pets[i].Latitude, pets[i].Longitude)
		dj := HaversineM(lat, lng, pets[j].Latitude, pets[j].Longitude)
		return di < dj
	})
	return pets, nil
}

func decodePets(ctx context.Context, cur *mongo.Cursor) ([]*models.Pet, error) {
	out := make([]*models.Pet, 0)
	for cur.Next(ctx) {
		var doc mongoPetDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, docToPet(&doc))
	}
	return out, cur.Err()
}

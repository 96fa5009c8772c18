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
	"golang.org/x/crypto/bcrypt"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

func newUserID() string { return uuid.New().String() }

type MongoUserService struct {
	client   *mongo.Client
	db       *mongo.Database
	usersCol *mongo.Collection
}

func NewMongoUserService(ctx context.Context, mongoURI, dbName string) (*MongoUserService, error) {
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
	col := db.Collection("users")

	// Best-effort indexes. Email is sparse-unique so Firebase accounts
	// without a visible email don't collide on "".
	_, _ = col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})

	log.Printf("MongoDB connected (users): db=%s", dbName)
	return &MongoUserService{
		client:   client,
		db:       db,
		usersCol: col,
	}, nil
}

func (s *MongoUserService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// GetOrCreate returns the directory record for uid, creating it on first
// login with whatever the verified token carried.
func (s *MongoUserService) GetOrCreate(ctx context.Context, uid, email, name, picture string) (*models.User, error) {
	if uid == "" {
		return nil, ErrUserBadInput
	}

	now := time.Now()

	var u models.User
	err := s.usersCol.FindOne(ctx, bson.M{"user_id": uid}).Decode(&u)
	if err == nil {
		set := bson.M{}
		if email != "" && u.Email == "" {
			set["email"] = email
			u.Email = email
		}
		if name != "" && u.Name == "" {
			set["name"] = name
			u.Name = name
		}
		if picture != "" && u.Picture == "" {
			set["picture"] = picture
			u.Picture = picture
		}
		if len(set) > 0 {
			set["updated_at"] = now
			_, _ = s.usersCol.UpdateOne(ctx, bson.M{"user_id": uid}, bson.M{"$set": set})
			u.UpdatedAt = now
		}
		return &u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	u = models.User{
		UserID:    uid,
		Email:     email,
		Name:      name,
		Picture:   picture,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.usersCol.InsertOne(ctx, u); err != nil {
		// If a race created it, fetch again.
		var retry models.User
		if err2 := s.usersCol.FindOne(ctx, bson.M{"user_id": uid}).Decode(&retry); err2 == nil {
			return &retry, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"user_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.usersCol.FindOne(ctx, bson.M{"email": email}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserService) Upsert(ctx context.Context, uid string, req *models.UpsertUserRequest) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Picture != nil {
		set["picture"] = *req.Picture
	}

	res := s.usersCol.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": uid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var u models.User
	if err := res.Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if _, err := s.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := models.User{
		UserID:       newUserID(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hashed),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.usersCol.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	u, err := s.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}
	return u, nil
}

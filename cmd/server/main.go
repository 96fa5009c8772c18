package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/nikhil-rathour/TailMate-sub001/internal/config"
	"github.com/nikhil-rathour/TailMate-sub001/internal/handlers"
	appMiddleware "github.com/nikhil-rathour/TailMate-sub001/internal/middleware"
	"github.com/nikhil-rathour/TailMate-sub001/internal/realtime"
	"github.com/nikhil-rathour/TailMate-sub001/internal/services"
	"github.com/nikhil-rathour/TailMate-sub001/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.Load()
	ctx := context.Background()

	// Firebase Auth (server-side verification of ID tokens)
	authClient, err := appMiddleware.NewFirebaseAuthClient(ctx, appMiddleware.FirebaseAuthConfig{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsJSON: cfg.FirebaseCredentialsJSON,
	})
	if err != nil {
		log.Printf("Warning: Firebase Auth unavailable, falling back to local JWT: %v", err)
	}

	// Services: MongoDB when configured, in-memory with JSON snapshots
	// otherwise.
	var (
		userService     services.UserService
		petService      services.PetService
		datingService   services.DatingService
		matchService    services.MatchService
		chatService     services.ChatService
		favoriteService services.FavoriteService
		storyService    services.StoryService
		flagService     services.FlagService
		accountService  services.AccountService
	)

	if cfg.MongoURI != "" {
		mongoUsers, err := services.NewMongoUserService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo users: %v", err)
		}
		mongoPets, err := services.NewMongoPetService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo pets: %v", err)
		}
		mongoDating, err := services.NewMongoDatingService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo dating: %v", err)
		}
		mongoMatches, err := services.NewMongoMatchService(ctx, cfg.MongoURI, cfg.MongoDB, mongoUsers, mongoDating)
		if err != nil {
			log.Fatalf("mongo matches: %v", err)
		}
		mongoChat, err := services.NewMongoChatService(ctx, cfg.MongoURI, cfg.MongoDB, mongoUsers)
		if err != nil {
			log.Fatalf("mongo chat: %v", err)
		}
		mongoFavorites, err := services.NewMongoFavoriteService(ctx, cfg.MongoURI, cfg.MongoDB, mongoPets)
		if err != nil {
			log.Fatalf("mongo favorites: %v", err)
		}
		mongoStories, err := services.NewMongoStoryService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo stories: %v", err)
		}
		mongoFlags, err := services.NewMongoFlagService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo flags: %v", err)
		}
		mongoAccount, err := services.NewMongoAccountService(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			log.Fatalf("mongo account: %v", err)
		}

		userService = mongoUsers
		petService = mongoPets
		datingService = mongoDating
		matchService = mongoMatches
		chatService = mongoChat
		favoriteService = mongoFavorites
		storyService = mongoStories
		flagService = mongoFlags
		accountService = mongoAccount
	} else {
		log.Println("MONGODB_URI not set, using in-memory services with JSON snapshots")
		userStore := mustStore(cfg.DataDir, "users.json")
		petStore := mustStore(cfg.DataDir, "pets.json")
		datingStore := mustStore(cfg.DataDir, "dating_profiles.json")
		matchStore := mustStore(cfg.DataDir, "matches.json")
		chatStore := mustStore(cfg.DataDir, "messages.json")

		memUsers := services.NewMemoryUserService(userStore)
		memPets := services.NewMemoryPetService(petStore)
		memDating := services.NewMemoryDatingService(datingStore)
		memMatches := services.NewMemoryMatchService(memUsers, memDating, matchStore)
		memChat := services.NewMemoryChatService(memUsers, chatStore)
		memFavorites := services.NewMemoryFavoriteService(memPets)
		memStories := services.NewMemoryStoryService()
		memFlags := services.NewMemoryFlagService()

		userService = memUsers
		petService = memPets
		datingService = memDating
		matchService = memMatches
		chatService = memChat
		favoriteService = memFavorites
		storyService = memStories
		flagService = memFlags
		accountService = services.NewMemoryAccountService(
			memUsers, memPets, memDating, memMatches, memChat, memFavorites, memStories, memFlags)
	}

	// Media storage: GCS bucket when configured, local disk otherwise.
	var media services.MediaStorage
	var gcsMedia *services.GCSMediaStorage
	if cfg.GCSBucket != "" {
		gcsMedia, err = services.NewGCSMediaStorage(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("gcs media: %v", err)
		}
		media = gcsMedia
	} else {
		local, err := services.NewLocalMediaStorage(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("local media: %v", err)
		}
		media = local
	}

	// Image moderation needs the bucket; without one uploads skip the
	// safety check.
	var moderationService *services.ModerationService
	if cfg.GCSBucket != "" {
		moderationService, err = services.NewModerationService(ctx, cfg.GCSBucket, flagService)
		if err != nil {
			log.Printf("Warning: moderation unavailable: %v", err)
		}
	}

	// Optional collaborators.
	var careService *services.CareService
	if cfg.GeminiAPIKey != "" {
		careService, err = services.NewCareService(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Warning: care recommendations unavailable: %v", err)
		}
	}
	var clinicService *services.ClinicService
	if cfg.MapsAPIKey != "" {
		clinicService, err = services.NewClinicService(cfg.MapsAPIKey)
		if err != nil {
			log.Printf("Warning: clinic lookup unavailable: %v", err)
		}
	}

	// Realtime hub.
	hub := realtime.NewHub()
	go hub.Run()

	// Handlers.
	authHandler := handlers.NewAuthHandler(userService, cfg.JWTSecret, cfg.JWTExpiration)
	userHandler := handlers.NewUserHandler(userService)
	petHandler := handlers.NewPetHandler(petService, moderationService)
	datingHandler := handlers.NewDatingHandler(datingService, moderationService)
	matchHandler := handlers.NewMatchHandler(matchService)
	chatHandler := handlers.NewChatHandler(chatService, hub)
	storyHandler := handlers.NewStoryHandler(storyService, moderationService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)
	uploadHandler := handlers.NewUploadHandler(media, cfg.MaxUploadSizeMB)
	careHandler := handlers.NewCareHandler(careService, clinicService)

	accountHandler := handlers.NewAccountHandler(accountService, gcsMedia)

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Websocket relay. Auth rides the token query parameter.
	r.Get("/ws", realtime.ServeWS(hub, chatService, func(ctx context.Context, token string) (string, error) {
		return appMiddleware.VerifyToken(ctx, authClient, cfg.JWTSecret, token)
	}))

	r.Route("/api", func(r chi.Router) {
		// Local auth fallback.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes.
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Auth(authClient, cfg.JWTSecret))

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMe)
				r.Get("/{userId}", userHandler.GetPublic)
			})

			r.Route("/pets", func(r chi.Router) {
				r.Get("/", petHandler.List)
				r.Post("/", petHandler.Create)
				r.Get("/mine", petHandler.ListMine)
				r.Get("/nearby", petHandler.ListNearby)

				r.Route("/{petId}", func(r chi.Router) {
					r.Get("/", petHandler.Get)
					r.Put("/", petHandler.Update)
					r.Delete("/", petHandler.Delete)

					r.Post("/favorite", favoriteHandler.Add)
					r.Delete("/favorite", favoriteHandler.Remove)
				})
			})

			r.Get("/favorites", favoriteHandler.List)

			r.Route("/dating", func(r chi.Router) {
				r.Post("/profile", datingHandler.CreateProfile)
				r.Get("/profile", datingHandler.GetMyProfile)
				r.Put("/profile", datingHandler.UpdateProfile)
				r.Delete("/profile", datingHandler.DeleteProfile)
				r.Post("/profile/toggle", datingHandler.ToggleActive)

				r.Get("/nearby", datingHandler.Nearby)
				r.Get("/matches", datingHandler.ListMatches)

				r.Route("/profiles/{profileId}", func(r chi.Router) {
					r.Get("/", datingHandler.GetProfile)
					r.Post("/like", datingHandler.Like)
					r.Post("/pass", datingHandler.Pass)
				})
			})

			r.Route("/matches", func(r chi.Router) {
				r.Get("/", matchHandler.List)
				r.Post("/", matchHandler.Create)
				r.Delete("/{userId}", matchHandler.Delete)
			})

			r.Route("/chat", func(r chi.Router) {
				r.Post("/messages", chatHandler.Send)
				r.Get("/conversations", chatHandler.Conversations)
				r.Get("/history/{userId}", chatHandler.History)
				r.Post("/read/{userId}", chatHandler.MarkRead)
				r.Delete("/messages/{messageId}", chatHandler.Delete)
			})

			r.Route("/stories", func(r chi.Router) {
				r.Get("/", storyHandler.List)
				r.Post("/", storyHandler.Create)
				r.Get("/mine", storyHandler.ListMine)
				r.Get("/{storyId}", storyHandler.Get)
				r.Delete("/{storyId}", storyHandler.Delete)
			})

			r.Post("/care/recommend", careHandler.Recommend)
			r.Get("/care/clinics", careHandler.NearbyClinics)

			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/upload", uploadHandler.Delete)

			r.Delete("/account", accountHandler.DeleteAccount)
		})
	})

	// Serve locally stored uploads.
	workDir, _ := os.Getwd()
	filesDir := http.Dir(workDir + "/" + cfg.UploadDir)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(filesDir)))

	log.Printf("TailMate API server starting on %s", cfg.ServerAddress)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func mustStore(dataDir, filename string) *storage.JSONStore {
	store, err := storage.NewJSONStore(dataDir, filename)
	if err != nil {
		log.Fatalf("json store %s: %v", filename, err)
	}
	return store
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julienschmidt/httprouter"

	. "github.com/kunleadeyemi/picvault"
	"github.com/kunleadeyemi/picvault/auth"
	"github.com/kunleadeyemi/picvault/imgur"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := LoadConfig()
	if err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	users, err := newRepository(cfg, log)
	if err != nil {
		log.Error("connecting credential store", "err", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenService([]byte(cfg.SigningKey), cfg.TokenTTL)
	host := imgur.NewClient(cfg.ImgurBaseURL, cfg.ImgurAccessToken, log)

	svc := NewService(users, tokens, log)
	images := NewImageService(users, host, log)

	protect := func(h http.Handler) http.Handler {
		return auth.RequireAuth(tokens, log, h)
	}

	router := httprouter.New()
	router.Handler(http.MethodPost, "/api/users/register", RegisterUserHandler(svc))
	router.Handler(http.MethodPost, "/api/users/login", LoginHandler(svc))
	router.Handler(http.MethodPost, "/api/users/token", TokenHandler(svc))
	router.Handler(http.MethodPut, "/api/users/update-phone", protect(UpdatePhoneHandler(svc)))
	router.Handler(http.MethodGet, "/api/users/profile-with-images", protect(ProfileHandler(svc)))
	router.Handler(http.MethodPost, "/api/users/upload-image", protect(UploadImageHandler(images)))
	router.Handler(http.MethodGet, "/api/users/images", protect(ListImagesHandler(images)))
	router.Handler(http.MethodDelete, "/api/users/delete-image", protect(DeleteImageHandler(images)))
	router.Handler(http.MethodGet, "/api/users/image/:imageId", protect(GetImageHandler(images)))

	log.Info("server started", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newRepository(cfg Config, log *slog.Logger) (Repository, error) {
	if cfg.MongoURI == "" {
		log.Warn("MONGO_URI not set, using in-memory credential store")
		return NewUserRepository(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	users := client.Database(cfg.MongoDatabase).Collection("users")
	return NewMongoUserRepository(users), nil
}

package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hykleas/Review-Guard/internal/config"
	"github.com/hykleas/Review-Guard/internal/server"
)

func main() {
	cfg := config.Load()

	var deps server.Dependencies

	if cfg.Storage == config.StorageMongo {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err := mongo.Connect(ctx, clientOptions)
		if err != nil {
			cfg.ServerLog.Fatalf("MongoDB connect failed: %v", err)
		}
		deps.Mongo = client
	}

	if cfg.RateLimitBackend == config.RateLimitRedis {
		deps.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	app, err := server.New(cfg, deps)
	if err != nil {
		cfg.ServerLog.Fatalf("failed to build server: %v", err)
	}
	if err := app.Run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

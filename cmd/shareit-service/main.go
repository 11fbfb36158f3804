package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/shareit-app/referral-service/internal/api"
	"github.com/shareit-app/referral-service/internal/cache"
	"github.com/shareit-app/referral-service/internal/config"
	"github.com/shareit-app/referral-service/internal/repository"
	"github.com/shareit-app/referral-service/internal/seed"
	"github.com/shareit-app/referral-service/internal/service"
	"github.com/shareit-app/referral-service/pkg/blob"
	"github.com/shareit-app/referral-service/pkg/db"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	client, err := db.Connect(cfg.MongoURI)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	}()
	database := client.Database(cfg.MongoDB)

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.EnsureIndexes(bootCtx, database); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	users := repository.NewUserRepo(database)
	businesses := repository.NewBusinessRepo(database)
	recommendations := repository.NewRecommendationRepo(database)
	savedOffers := repository.NewSavedOfferRepo(database)
	connections := repository.NewConnectionRepo(database)

	if err := seed.Businesses(bootCtx, businesses, cfg.SeedFile, logger); err != nil {
		logger.Fatal("seed businesses", zap.Error(err))
	}

	blobs, err := blob.NewDiskStore(cfg.BlobDir, cfg.BlobBaseURL)
	if err != nil {
		logger.Fatal("blob store", zap.Error(err))
	}

	businessCache := cache.NewBusinessCache(businesses.Get)
	directory := service.NewDirectoryService(recommendations, logger)
	offers := service.NewOfferService(users, savedOffers, recommendations, businessCache, directory, blobs, logger)
	ratings := service.NewRatingService(recommendations, users, directory, logger)
	graph := service.NewGraphService(connections, logger)

	handler := api.NewRouter(api.Deps{
		Offers:       offers,
		Ratings:      ratings,
		Graph:        graph,
		Directory:    directory,
		Users:        users,
		Businesses:   businesses,
		JWTSecret:    cfg.JWTSecret,
		ShareBaseURL: cfg.ShareBaseURL,
		BlobDir:      blobs.Dir(),
		Log:          logger,
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		<-c
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting shareit-service", zap.String("addr", cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}

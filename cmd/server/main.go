package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staybooking/listing-service/internal/adapter/geocoding"
	"github.com/staybooking/listing-service/internal/adapter/lock"
	"github.com/staybooking/listing-service/internal/adapter/messaging/nats"
	"github.com/staybooking/listing-service/internal/adapter/repository/cache"
	"github.com/staybooking/listing-service/internal/adapter/repository/mongodb"
	"github.com/staybooking/listing-service/internal/adapter/rest"
	"github.com/staybooking/listing-service/internal/adapter/storage/s3"
	"github.com/staybooking/listing-service/internal/config"
	"github.com/staybooking/listing-service/internal/listing/usecase"
	"github.com/staybooking/listing-service/internal/mailer"
	"github.com/staybooking/listing-service/internal/platform/logger"
	"github.com/staybooking/listing-service/internal/platform/tracer"
)

func main() {
	log := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err.Error())
		os.Exit(1)
	}

	tp := tracer.InitTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Failed to shut down tracer provider", "error", err.Error())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Error("Failed to connect to MongoDB", "error", err.Error())
		os.Exit(1)
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db, log)
	if err := listingRepo.EnsureIndexes(ctx); err != nil {
		log.Error("Failed to ensure listing indexes", "error", err.Error())
		os.Exit(1)
	}
	bookingRepo := mongodb.NewBookingRepository(db, log, nil)
	favoriteRepo := mongodb.NewFavoriteRepository(db, log)
	if err := favoriteRepo.EnsureIndexes(ctx); err != nil {
		log.Error("Failed to ensure favorite indexes", "error", err.Error())
		os.Exit(1)
	}
	hostRepo := mongodb.NewHostRepository(db, log)

	storageClient, err := s3.NewS3Storage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, log)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err.Error())
		os.Exit(1)
	}

	geocoder, err := cache.NewGeocodeCache(cfg.RedisAddress, geocoding.NewNominatimGeocoder(cfg.GeocoderBaseURL, log), log)
	if err != nil {
		log.Error("Failed to initialize geocode cache", "error", err.Error())
		os.Exit(1)
	}

	listingLocker, err := lock.NewRedisListingLocker(cfg.RedisAddress, log)
	if err != nil {
		log.Error("Failed to initialize listing locker", "error", err.Error())
		os.Exit(1)
	}

	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Error("Failed to initialize NATS publisher", "error", err.Error())
		os.Exit(1)
	}
	defer natsPublisher.Close()

	hostNotifier := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword, hostRepo, log)

	availability := usecase.NewAvailabilityChecker(bookingRepo, log)
	spatialIndex := usecase.NewSpatialIndex(listingRepo, availability, log)
	searchUc := usecase.NewSearchUsecase(spatialIndex, log, nil)
	photoUc := usecase.NewPhotoUsecase(storageClient, cfg.UploadWorkers, log)
	listingUc := usecase.NewListingUsecase(usecase.ListingUsecaseDeps{
		Listings:     listingRepo,
		Availability: availability,
		Geocoder:     geocoder,
		Photos:       photoUc,
		Locker:       listingLocker,
		Events:       natsPublisher,
		Notifier:     hostNotifier,
		Logger:       log,
	})
	favoriteUc := usecase.NewFavoriteUsecase(favoriteRepo, log)

	e := echo.New()
	e.HideBanner = true
	e.Use(rest.RequestLogger(log))

	handler := rest.NewHandler(searchUc, listingUc, favoriteUc, log)
	handler.Register(e, cfg.JWTSecret)

	go func() {
		log.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := e.Start(":" + cfg.HTTPPort); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server stopped", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down HTTP server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", "error", err.Error())
	}
}

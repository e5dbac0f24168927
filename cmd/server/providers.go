// File: cmd/server/providers.go
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"startupteam_backend/internal/config"
	"startupteam_backend/internal/filestorage"
	"startupteam_backend/internal/firebase"
	"startupteam_backend/internal/platform/database"
	platformElasticsearch "startupteam_backend/internal/platform/elasticsearch"
)

// provideDatabase opens the pool and returns a cleanup that closes it and
// flushes the logger.
func provideDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewGORM(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db, logger)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return db, cleanup, nil
}

// provideSearchClient returns nil when ELASTICSEARCH_URL is unset. A missing
// index is created; failure to do so is logged and search falls back to the
// database.
func provideSearchClient(cfg *config.Config, logger *zap.Logger) (*platformElasticsearch.ESClientWrapper, error) {
	client, err := platformElasticsearch.NewClient(cfg, logger)
	if err != nil || client == nil {
		return client, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := platformElasticsearch.CreateStartupsIndexIfNotExists(ctx, client, logger); err != nil {
		logger.Error("Failed to create Elasticsearch startups index", zap.Error(err))
	}
	return client, nil
}

// provideImageStore picks the upload backend named by IMAGE_STORAGE_DRIVER.
func provideImageStore(cfg *config.Config, logger *zap.Logger) (filestorage.ImageStore, error) {
	if cfg.ImageStorageDriver == config.StorageDriverFirebase {
		store, err := firebase.NewStorageStore(context.Background(), cfg, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := filestorage.NewLocalStore(cfg.LocalStoragePath, cfg.ImagePublicBaseURL, logger)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func provideUploadHandler(service *filestorage.UploadService, cfg *config.Config, logger *zap.Logger) *filestorage.Handler {
	return filestorage.NewHandler(service, cfg.MaxUploadSizeMB<<20, logger)
}

// File: internal/firebase/storage.go
package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"startupteam_backend/internal/config"
	"startupteam_backend/internal/filestorage"
)

const downloadTokenKey = "firebaseStorageDownloadTokens"

// StorageStore keeps images in a Firebase Storage bucket.
type StorageStore struct {
	bucket     *storage.BucketHandle
	bucketName string
	logger     *zap.Logger
}

// NewStorageStore initializes the Firebase Admin SDK and opens the configured bucket.
func NewStorageStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*StorageStore, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		return nil, fmt.Errorf("firebase service account key path is required")
	}
	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: cfg.FirebaseStorageBucket}, option.WithCredentialsFile(cleanPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firebase Storage client: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error opening bucket %s: %w", cfg.FirebaseStorageBucket, err)
	}

	logger.Info("Firebase Storage initialized", zap.String("bucket", cfg.FirebaseStorageBucket))
	return &StorageStore{bucket: bucket, bucketName: cfg.FirebaseStorageBucket, logger: logger}, nil
}

// Store uploads data under folder and returns a tokenized download URL. The
// reference is the object name.
func (s *StorageStore) Store(ctx context.Context, folder string, data []byte) (string, string, error) {
	img, err := filestorage.DetectImage(data)
	if err != nil {
		return "", "", err
	}

	name := path.Join(folder, uuid.NewString()+img.Extension)
	token := uuid.NewString()

	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = img.ContentType
	w.CacheControl = "public, max-age=31536000"
	w.Metadata = map[string]string{downloadTokenKey: token}

	if _, err := w.Write(img.Data); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("upload %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("finalize upload %s: %w", name, err)
	}

	s.logger.Debug("Image uploaded", zap.String("object", name))
	return downloadURL(s.bucketName, name, token), name, nil
}

// Delete removes the object. A missing object is not an error.
func (s *StorageStore) Delete(ctx context.Context, ref string) error {
	err := s.bucket.Object(ref).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("delete %s: %w", ref, err)
	}
	return nil
}

func downloadURL(bucket, object, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(object), url.QueryEscape(token))
}

var _ filestorage.ImageStore = (*StorageStore)(nil)

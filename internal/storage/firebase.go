package storage

import (
	"context"
	"fmt"
	"net/url"

	firebase "firebase.google.com/go/v4"
	fbstorage "firebase.google.com/go/v4/storage"
	"google.golang.org/api/option"

	"usethis-backend/internal/logger"
)

// FirebaseStorage writes objects to the project's Cloud Storage bucket.
type FirebaseStorage struct {
	client *fbstorage.Client
	bucket string
}

func NewFirebaseStorage(ctx context.Context, bucket, credentialsFile string) (*FirebaseStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucket}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase storage: %w", err)
	}
	return &FirebaseStorage{client: client, bucket: bucket}, nil
}

func (s *FirebaseStorage) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	logger.ExternalServiceCall("firebase-storage", "Upload", "bucket", s.bucket, "path", p, "size", len(data))
	bucket, err := s.client.Bucket(s.bucket)
	if err != nil {
		logger.ExternalServiceResult("firebase-storage", "Upload", err)
		return err
	}

	w := bucket.Object(p).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		logger.ExternalServiceResult("firebase-storage", "Upload", err)
		return err
	}
	err = w.Close()
	logger.ExternalServiceResult("firebase-storage", "Upload", err, "path", p)
	return err
}

func (s *FirebaseStorage) Delete(ctx context.Context, objectPath string) error {
	p, err := cleanPath(objectPath)
	if err != nil {
		return err
	}
	bucket, err := s.client.Bucket(s.bucket)
	if err != nil {
		return err
	}
	return bucket.Object(p).Delete(ctx)
}

// PublicURL returns the Firebase download URL form for the object.
func (s *FirebaseStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media",
		s.bucket, url.PathEscape(objectPath))
}

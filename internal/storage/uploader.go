package storage

import (
	"context"
	"fmt"
	"net/url"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Uploader writes item images to a GCS bucket and returns a public
// firebase-style download URL.
type Uploader struct {
	client *gcs.Client
	bucket string
}

func NewUploader(ctx context.Context, bucket string) (*Uploader, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Uploader{client: client, bucket: bucket}, nil
}

func (u *Uploader) Close() error {
	return u.client.Close()
}

// Upload stores data under objectPath with a fresh download token and
// returns the tokenized public URL.
func (u *Uploader) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	token := uuid.NewString()
	obj := u.client.Bucket(u.bucket).Object(objectPath)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := w.Write(data); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	escapedPath := url.PathEscape(objectPath)
	publicURL := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		u.bucket, escapedPath, token)
	return publicURL, nil
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"path"
	"time"

	"cloud.google.com/go/storage"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/pkg/helpers"
)

// GCSStore uploads avatars to a Google Cloud Storage bucket under Prefix.
// The bucket is expected to allow public reads; the default image must be
// uploaded there once.
type GCSStore struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

func NewGCSStore(client *storage.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket, Prefix: prefix}
}

func (s *GCSStore) Save(ctx context.Context, name, contentType string, data []byte) error {
	if s.Client == nil || s.Bucket == "" {
		return errors.New("gcs not configured")
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return helpers.UploadObject(c, s.Client, s.Bucket, s.object(name), contentType, bytes.NewReader(data))
}

func (s *GCSStore) URL(name string) string {
	return helpers.PublicURL(s.Bucket, s.object(name))
}

func (s *GCSStore) object(name string) string {
	return path.Join(s.Prefix, name)
}

var _ application.AvatarStore = (*GCSStore)(nil)

package detect

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	gos3 "skinective/pkg/s3"
)

// ArchivePrefix is the fixed path prefix under which uploaded images are
// stored; the suffix is a fresh random identifier per upload.
const ArchivePrefix = "detectHistoryImage/"

// S3Archive stores original uploads in a publicly readable bucket.
type S3Archive struct {
	client     *gos3.Client
	bucket     string
	publicBase string
}

// NewS3Archive builds the archive adapter. publicBase optionally overrides
// the retrieval URL base, for buckets fronted by a CDN or gateway.
func NewS3Archive(client *gos3.Client, bucket, publicBase string) *S3Archive {
	return &S3Archive{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// Store uploads the image under key with its declared content type and
// returns the public retrieval URL.
func (a *S3Archive) Store(ctx context.Context, key, contentType string, data []byte) (string, error) {
	err := a.client.Upload(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}

	if a.publicBase != "" {
		return fmt.Sprintf("%s/%s", a.publicBase, key), nil
	}
	return a.client.PublicURL(a.bucket, key), nil
}

// Discard removes a previously stored object. Only used as best-effort
// cleanup when the history insert fails after a successful upload.
func (a *S3Archive) Discard(ctx context.Context, key string) error {
	return a.client.Delete(ctx, a.bucket, key)
}

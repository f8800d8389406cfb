package filestorage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/yigit/schooladmin/internal/pkg/logger"
)

// SupabaseStorage uploads objects to one Supabase Storage bucket through storage-go.
type SupabaseStorage struct {
	// {project url}/storage/v1
	endpoint string
	key      string
	bucket   string
	timeout  time.Duration
}

// NewSupabaseStorage creates a client for bucket on the Supabase project at baseURL.
func NewSupabaseStorage(baseURL, key, bucket string, timeout time.Duration) *SupabaseStorage {
	return &SupabaseStorage{
		endpoint: strings.TrimRight(baseURL, "/") + "/storage/v1",
		key:      key,
		bucket:   bucket,
		timeout:  timeout,
	}
}

// storage-go keeps per-upload headers (content type, upsert) on the client, so
// every upload gets its own.
func (s *SupabaseStorage) client() *storage_go.Client {
	return storage_go.NewClient(s.endpoint, s.key, map[string]string{"apikey": s.key})
}

type uploadResult struct {
	resp storage_go.FileUploadResponse
	err  error
}

// Upload sends the file at localPath to the bucket under objectPath and returns
// the public URL of the object. An empty contentType is sniffed from the file.
func (s *SupabaseStorage) Upload(ctx context.Context, objectPath, localPath, contentType string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	// closing the file also aborts an upload abandoned on timeout
	defer file.Close()

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = "application/octet-stream"
		if mt, err := mimetype.DetectFile(localPath); err == nil {
			contentType = mt.String()
		}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	path := strings.TrimLeft(objectPath, "/")
	upsert := false
	done := make(chan uploadResult, 1)
	go func() {
		resp, err := s.client().UploadFile(s.bucket, path, file, storage_go.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		done <- uploadResult{resp: resp, err: err}
	}()

	var res uploadResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}

	if res.err == nil && res.resp.Key == "" {
		res.err = fmt.Errorf("bucket %s did not acknowledge %s", s.bucket, path)
	}
	if res.err != nil {
		logger.Error().Err(res.err).Str("object", objectPath).Msg("Storage upload failed")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, res.err)
	}

	url := s.PublicURL(objectPath)
	logger.Info().Str("object", objectPath).Str("url", url).Msg("Uploaded file to storage")
	return url, nil
}

// PublicURL returns {url}/storage/v1/object/public/{bucket}/{objectPath}.
func (s *SupabaseStorage) PublicURL(objectPath string) string {
	return s.client().GetPublicUrl(s.bucket, strings.TrimLeft(objectPath, "/")).SignedURL
}

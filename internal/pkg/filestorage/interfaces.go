package filestorage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DefaultExtension is used when an uploaded file has no extension.
const DefaultExtension = ".jpg"

// StudentPhotoPrefix is the object path prefix for profile pictures.
const StudentPhotoPrefix = "students"

// ErrUploadFailed wraps every failure of an ObjectStorage upload.
var ErrUploadFailed = errors.New("failed to upload to storage")

// ObjectStorage stores a file under an object path and returns its public URL.
type ObjectStorage interface {
	// Upload copies the file at localPath to objectPath
	Upload(ctx context.Context, objectPath, localPath, contentType string) (string, error)

	// PublicURL returns the URL under which objectPath is served
	PublicURL(objectPath string) string
}

// UniqueFilename returns a random 32 hex character name that keeps the
// extension of original, or DefaultExtension when it has none.
func UniqueFilename(original string) string {
	ext := filepath.Ext(original)
	if ext == "" {
		ext = DefaultExtension
	}
	return strings.ReplaceAll(uuid.New().String(), "-", "") + ext
}

// ObjectPath joins the student photo prefix and a filename.
func ObjectPath(filename string) string {
	return StudentPhotoPrefix + "/" + filename
}

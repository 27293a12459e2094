// Package avatar moves profile pictures between local files and the
// backend's avatar bucket.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/partysync/partysync-cli/internal/backend"
)

// ErrNotAnImage is returned when the picked file does not sniff as an image.
var ErrNotAnImage = errors.New("file is not an image")

var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploader stores avatars under "<userID>/<random>.<ext>" in the bucket
// and resolves public URLs back to object paths for deletion.
type Uploader struct {
	storage backend.ObjectStorage
	bucket  string
}

func NewUploader(storage backend.ObjectStorage, bucket string) *Uploader {
	return &Uploader{storage: storage, bucket: bucket}
}

// UploadFromFile reads the image at filePath and uploads it for userID,
// returning the public URL.
func (u *Uploader) UploadFromFile(ctx context.Context, userID, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	contentType := http.DetectContentType(data)
	ext, ok := extByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, contentType)
	}

	path := userID + "/" + uuid.NewString() + ext
	return u.storage.Upload(ctx, path, data, contentType)
}

// DeleteByURL removes the object a public avatar URL points at. URLs that
// do not contain this bucket are ignored.
func (u *Uploader) DeleteByURL(ctx context.Context, publicURL string) error {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("parse avatar url: %w", err)
	}

	marker := "/" + u.bucket + "/"
	_, objectPath, found := strings.Cut(parsed.Path, marker)
	if !found || objectPath == "" {
		return nil
	}

	return u.storage.Delete(ctx, objectPath)
}

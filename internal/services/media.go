package services

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	BucketPartners = "partners"

	mediaURLPrefix = "/api/media/files/"
	maxPhotoBytes  = 10 << 20
	sniffLength    = 512
)

var photoContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// MediaFiles keeps uploaded partner photos on local disk under BasePath.
type MediaFiles struct {
	BasePath string
}

// StoredPhoto describes a file written by SavePhoto.
type StoredPhoto struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
	SHA256      string
}

func EnsureStoragePath(base string, bucket string) (string, error) {
	path := filepath.Join(base, bucket)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// SavePhoto streams body to a new file and returns its public URL. The type
// is sniffed from the content; the client's declared type is not trusted.
// Empty, oversized and non-image uploads are rejected.
func (m MediaFiles) SavePhoto(body io.Reader) (StoredPhoto, error) {
	head := make([]byte, sniffLength)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return StoredPhoto{}, WrapError(err, "read media upload")
	}
	head = head[:n]
	if n == 0 {
		return StoredPhoto{}, ErrBadRequest("The uploaded file is empty")
	}
	contentType := http.DetectContentType(head)
	ext, ok := photoContentTypes[contentType]
	if !ok {
		return StoredPhoto{}, ErrBadRequest("Unsupported image type")
	}

	bucketPath, err := EnsureStoragePath(m.BasePath, BucketPartners)
	if err != nil {
		return StoredPhoto{}, WrapError(err, "prepare media storage")
	}
	key := uuid.NewString() + ext
	targetPath := filepath.Join(bucketPath, key)

	file, err := os.Create(targetPath)
	if err != nil {
		return StoredPhoto{}, WrapError(err, "create media file")
	}
	hasher := sha256.New()
	writer := io.MultiWriter(file, hasher)
	content := io.MultiReader(bytes.NewReader(head), body)
	size, err := io.Copy(writer, io.LimitReader(content, maxPhotoBytes+1))
	_ = file.Close()
	if err != nil {
		_ = os.Remove(targetPath)
		return StoredPhoto{}, WrapError(err, "write media file")
	}
	if size > maxPhotoBytes {
		_ = os.Remove(targetPath)
		return StoredPhoto{}, ErrBadRequest("The uploaded file is too large")
	}
	return StoredPhoto{
		Key:         key,
		URL:         BuildMediaURL(key),
		ContentType: contentType,
		Size:        size,
		SHA256:      hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open returns the stored file for key. Keys that could escape the bucket
// are treated as missing.
func (m MediaFiles) Open(key string) (*os.File, error) {
	if !validMediaKey(key) {
		return nil, ErrNotFound("Media not found")
	}
	file, err := os.Open(filepath.Join(m.BasePath, BucketPartners, key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound("Media not found")
	}
	return file, err
}

// Remove deletes the files behind any locally stored URLs. External URLs are
// left alone.
func (m MediaFiles) Remove(urls ...*string) {
	for _, url := range urls {
		if url == nil || !strings.HasPrefix(*url, mediaURLPrefix) {
			continue
		}
		key := strings.TrimPrefix(*url, mediaURLPrefix)
		if !validMediaKey(key) {
			continue
		}
		_ = os.Remove(filepath.Join(m.BasePath, BucketPartners, key))
	}
}

// IsLocalMediaURL reports whether url points at a file stored by SavePhoto.
func IsLocalMediaURL(url *string) bool {
	return url != nil && strings.HasPrefix(strings.TrimSpace(*url), mediaURLPrefix)
}

func BuildMediaURL(key string) string {
	return mediaURLPrefix + key
}

func validMediaKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && !strings.HasPrefix(key, ".")
}

package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/nikhil-rathour/TailMate-sub001/internal/models"
)

var (
	ErrMediaNotFound     = errors.New("media object not found")
	ErrMediaUnauthorized = errors.New("not authorized for this media object")
	ErrMediaBadInput     = errors.New("invalid media input")
)

// MediaStorage stores uploaded images. New uploads land under pending/
// until moderation promotes them.
type MediaStorage interface {
	Upload(ctx context.Context, userID, filename string, r io.Reader) (*models.UploadResponse, error)
	Delete(ctx context.Context, userID, path string) error
}

// GCSMediaStorage keeps media in a Firebase Storage bucket.
type GCSMediaStorage struct {
	client *storage.Client
	bucket string
}

func NewGCSMediaStorage(ctx context.Context, bucket string) (*GCSMediaStorage, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("media: storage client: %w", err)
	}
	return &GCSMediaStorage{client: client, bucket: bucket}, nil
}

func (s *GCSMediaStorage) Upload(ctx context.Context, userID, filename string, r io.Reader) (*models.UploadResponse, error) {
	if userID == "" {
		return nil, ErrMediaBadInput
	}

	objectName := fmt.Sprintf("pending/%s/%s%s", userID, uuid.New().String(), filepath.Ext(filename))
	token := uuid.New().String()

	obj := s.client.Bucket(s.bucket).Object(objectName)
	w := obj.NewWriter(ctx)
	w.Metadata = map[string]string{
		"owner":                         userID,
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("media: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("media: finalize: %w", err)
	}

	return &models.UploadResponse{
		URL:  firebaseDownloadURL(s.bucket, objectName, token),
		Path: objectName,
	}, nil
}

// Delete removes an object. Ownership is encoded in the path: a user may
// only delete objects under their own prefix.
func (s *GCSMediaStorage) Delete(ctx context.Context, userID, path string) error {
	if !ownsMediaPath(userID, path) {
		return ErrMediaUnauthorized
	}

	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err == storage.ErrObjectNotExist {
		return ErrMediaNotFound
	}
	return err
}

// DeleteAll best-effort removes a batch of objects, used by account
// deletion cleanup. Individual failures are skipped.
func (s *GCSMediaStorage) DeleteAll(ctx context.Context, paths []string) {
	for _, p := range paths {
		name := objectNameFromURL(s.bucket, p)
		if name == "" {
			continue
		}
		_ = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	}
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}

// objectNameFromURL recovers the object name from a download URL, or
// returns the input unchanged when it is already a bare path.
func objectNameFromURL(bucket, s string) string {
	if !strings.Contains(s, "://") {
		return s
	}
	prefix := fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/", bucket)
	if !strings.HasPrefix(s, prefix) {
		return ""
	}
	rest := strings.TrimPrefix(s, prefix)
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest = rest[:i]
	}
	name, err := url.PathUnescape(rest)
	if err != nil {
		return ""
	}
	return name
}

func ownsMediaPath(userID, path string) bool {
	for _, prefix := range []string{"pending/", "approved/"} {
		if strings.HasPrefix(path, prefix+userID+"/") {
			return true
		}
	}
	return false
}

// LocalMediaStorage writes uploads to a directory on disk, for running
// without a bucket. Files are served from /uploads/.
type LocalMediaStorage struct {
	dir     string
	baseURL string
}

func NewLocalMediaStorage(dir, baseURL string) (*LocalMediaStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalMediaStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalMediaStorage) Upload(ctx context.Context, userID, filename string, r io.Reader) (*models.UploadResponse, error) {
	if userID == "" {
		return nil, ErrMediaBadInput
	}

	name := fmt.Sprintf("%s_%s%s", userID, uuid.New().String(), filepath.Ext(filename))
	dst := filepath.Join(s.dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return nil, err
	}

	return &models.UploadResponse{
		URL:  s.baseURL + "/uploads/" + name,
		Path: name,
	}, nil
}

func (s *LocalMediaStorage) Delete(ctx context.Context, userID, path string) error {
	if !strings.HasPrefix(path, userID+"_") {
		return ErrMediaUnauthorized
	}
	err := os.Remove(filepath.Join(s.dir, filepath.Base(path)))
	if os.IsNotExist(err) {
		return ErrMediaNotFound
	}
	return err
}

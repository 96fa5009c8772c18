package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// ErrImageRejected is returned when SafeSearch flags an image as unsafe.
var ErrImageRejected = errors.New("image rejected: violates community guidelines")

// ModerationResult holds the outcome of a successful moderation pass.
type ModerationResult struct {
	ApprovedURL string
}

// ModerationService runs Vision SafeSearch on freshly uploaded images and
// promotes safe ones from pending/ to approved/ inline. Pet photos, profile
// photos and story images all pass through here before a record may
// reference them.
type ModerationService struct {
	gcs    *storage.Client
	bucket string
	flags  FlagService
}

// NewModerationService creates a storage client once at server startup.
// flags may be nil if strike tracking is not needed.
func NewModerationService(ctx context.Context, bucket string, flags FlagService) (*ModerationService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("moderation: storage client: %w", err)
	}
	return &ModerationService{
		gcs:    client,
		bucket: bucket,
		flags:  flags,
	}, nil
}

// ModerateAndPromote runs SafeSearch on a pending/ path. If safe, promotes
// (copy to approved/, delete pending, return download URL). If unsafe,
// deletes the pending object, records a strike, and returns ErrImageRejected.
func (m *ModerationService) ModerateAndPromote(ctx context.Context, pendingPath, userID string) (*ModerationResult, error) {
	if !strings.HasPrefix(pendingPath, "pending/") {
		// Already approved, nothing to do.
		return &ModerationResult{ApprovedURL: pendingPath}, nil
	}

	gcsURI := fmt.Sprintf("gs://%s/%s", m.bucket, pendingPath)
	ss, err := DetectSafeSearch(ctx, gcsURI)
	if err != nil {
		log.Printf("[moderation] SafeSearch error path=%s err=%v", pendingPath, err)
		return nil, fmt.Errorf("moderation: safesearch: %w", err)
	}

	if ss.IsUnsafe() {
		log.Printf("[moderation] image unsafe, deleting %s (adult=%s violence=%s racy=%s)",
			pendingPath, ss.Adult, ss.Violence, ss.Racy)
		if err := m.deleteObject(ctx, pendingPath); err != nil {
			log.Printf("[moderation] delete failed path=%s err=%v", pendingPath, err)
		}
		if m.flags != nil && userID != "" {
			if _, err := m.flags.AddStrike(ctx, userID); err != nil {
				log.Printf("[moderation] strike failed userID=%s err=%v", userID, err)
			}
		}
		return nil, ErrImageRejected
	}

	finalName := "approved/" + strings.TrimPrefix(pendingPath, "pending/")
	token := uuid.New().String()
	if err := m.promoteObject(ctx, pendingPath, finalName, token); err != nil {
		return nil, fmt.Errorf("moderation: promote: %w", err)
	}

	return &ModerationResult{ApprovedURL: firebaseDownloadURL(m.bucket, finalName, token)}, nil
}

// ModerateMultiple moderates a list of image paths. Already-approved paths
// pass through; the first rejection stops processing.
func (m *ModerationService) ModerateMultiple(ctx context.Context, paths []string, userID string) ([]string, error) {
	approved := make([]string, 0, len(paths))
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if !strings.HasPrefix(p, "pending/") {
			approved = append(approved, p)
			continue
		}
		res, err := m.ModerateAndPromote(ctx, p, userID)
		if err != nil {
			return nil, err
		}
		approved = append(approved, res.ApprovedURL)
	}
	return approved, nil
}

func (m *ModerationService) promoteObject(ctx context.Context, from, to, token string) error {
	b := m.gcs.Bucket(m.bucket)
	src := b.Object(from)
	dst := b.Object(to)

	attrs, err := src.Attrs(ctx)
	if err != nil {
		return fmt.Errorf("source attrs: %w", err)
	}

	md := map[string]string{}
	for k, v := range attrs.Metadata {
		md[k] = v
	}
	md["moderation"] = "approved"
	md["firebaseStorageDownloadTokens"] = token

	if _, err := dst.CopierFrom(src).Run(ctx); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	if _, err := dst.Update(ctx, storage.ObjectAttrsToUpdate{Metadata: md}); err != nil {
		return fmt.Errorf("update metadata: %w", err)
	}
	return src.Delete(ctx)
}

func (m *ModerationService) deleteObject(ctx context.Context, name string) error {
	return m.gcs.Bucket(m.bucket).Object(name).Delete(ctx)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const (
	FolderAvatars        = "avatars"
	FolderResumes        = "resumes"
	FolderCompanyAvatars = "company-avatars"
	FolderThumbnails     = "course-thumbnails"
	FolderEvents         = "event-images"

	defaultMaxUploadBytes = 5 << 20
)

type fileKind int

const (
	imageFile fileKind = iota
	documentFile
)

// allowedMIME lists content types accepted per kind, judged by the bytes of
// the upload rather than its name or declared type.
var allowedMIME = map[fileKind][]string{
	imageFile: {"image/jpeg", "image/png", "image/gif", "image/webp"},
	documentFile: {
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	},
}

// Uploader validates, rate-limits and stores client uploads.
type Uploader struct {
	storage  ports.FileStorage
	limiter  ports.UploadLimiter
	maxBytes int64
	log      zerolog.Logger
}

// NewUploader returns an Uploader. limiter may be nil to disable rate limiting.
func NewUploader(storage ports.FileStorage, limiter ports.UploadLimiter, maxBytes int64, log zerolog.Logger) *Uploader {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &Uploader{storage: storage, limiter: limiter, maxBytes: maxBytes, log: log}
}

// upload stores f in folder on behalf of principalID.
func (u *Uploader) upload(ctx context.Context, principalID string, f ports.File, folder string, kind fileKind) (domain.StoredFile, error) {
	if err := u.check(f, kind); err != nil {
		metrics.UploadsTotal.WithLabelValues(folder, "rejected").Inc()
		return domain.StoredFile{}, err
	}

	if u.limiter != nil {
		ok, retry, err := u.limiter.Allow(ctx, principalID)
		switch {
		case err != nil:
			u.log.Warn().Err(err).Str("principal", principalID).Msg("upload limiter unavailable, allowing upload")
		case !ok:
			metrics.UploadsTotal.WithLabelValues(folder, "rate_limited").Inc()
			return domain.StoredFile{}, domain.Errorf(domain.ErrRateLimited,
				"Too many uploads, try again in %s", retry.Round(time.Second))
		}
	}

	stored, err := u.storage.Upload(ctx, f, folder)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(folder, "failed").Inc()
		if errors.Is(err, domain.ErrUpstream) {
			return domain.StoredFile{}, err
		}
		return domain.StoredFile{}, fmt.Errorf("%w: upload: %v", domain.ErrUpstream, err)
	}
	metrics.UploadsTotal.WithLabelValues(folder, "stored").Inc()
	return stored, nil
}

// discard deletes a previously stored file. Failures are logged only: an
// orphaned object must never fail the request that replaced it.
func (u *Uploader) discard(ctx context.Context, f *domain.StoredFile) {
	if f.Empty() {
		return
	}
	for _, id := range []string{f.FileID, f.ThumbnailID} {
		if id == "" {
			continue
		}
		if err := u.storage.Delete(ctx, id); err != nil {
			u.log.Warn().Err(err).Str("file_id", id).Msg("failed to delete stored file")
		}
	}
}

// storeDerived stores a file generated by the server, such as a thumbnail.
// It skips content checks and rate limiting.
func (u *Uploader) storeDerived(ctx context.Context, f ports.File, folder string) (domain.StoredFile, error) {
	stored, err := u.storage.Upload(ctx, f, folder)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(folder, "failed").Inc()
		return domain.StoredFile{}, err
	}
	metrics.UploadsTotal.WithLabelValues(folder, "stored").Inc()
	return stored, nil
}

func (u *Uploader) check(f ports.File, kind fileKind) error {
	if len(f.Content) == 0 {
		return domain.NewError(domain.ErrValidation, "File is required")
	}
	if int64(len(f.Content)) > u.maxBytes {
		return domain.Errorf(domain.ErrValidation, "File exceeds %d MB", u.maxBytes>>20)
	}
	detected := mimetype.Detect(f.Content)
	for _, allowed := range allowedMIME[kind] {
		if detected.Is(allowed) {
			return nil
		}
	}
	return domain.Errorf(domain.ErrValidation, "Unsupported file type %s", detected.String())
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/domain"
	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
)

func TestUploader_ChecksContent(t *testing.T) {
	storage := newStubStorage()
	u := NewUploader(storage, nil, 1<<10, zerolog.Nop())
	ctx := context.Background()

	_, err := u.upload(ctx, "p1", ports.File{Name: "empty.png"}, FolderAvatars, imageFile)
	assert.ErrorIs(t, err, domain.ErrValidation)

	big := ports.File{Name: "big.png", Content: append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 2<<10)...)}
	_, err = u.upload(ctx, "p1", big, FolderAvatars, imageFile)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// the declared name and type do not matter, the bytes do
	disguised := ports.File{Name: "photo.png", ContentType: "image/png", Content: pdfBytes}
	_, err = u.upload(ctx, "p1", disguised, FolderAvatars, imageFile)
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := u.upload(ctx, "p1", pngFile(), FolderAvatars, imageFile)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.URL)
	assert.Len(t, storage.stored, 1)
}

func TestUploader_RateLimit(t *testing.T) {
	storage := newStubStorage()
	limited := NewUploader(storage, &stubLimiter{allow: false, retry: 30 * time.Second}, 0, zerolog.Nop())

	_, err := limited.upload(context.Background(), "p1", pngFile(), FolderAvatars, imageFile)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Contains(t, domain.Message(err), "30s")
	assert.Empty(t, storage.stored)

	// a broken limiter does not block uploads
	failOpen := NewUploader(storage, &stubLimiter{err: errors.New("redis down")}, 0, zerolog.Nop())
	_, err = failOpen.upload(context.Background(), "p1", pngFile(), FolderAvatars, imageFile)
	assert.NoError(t, err)
}

func TestUploader_Discard(t *testing.T) {
	storage := newStubStorage()
	u := newTestUploader(storage)
	ctx := context.Background()

	u.discard(ctx, nil)
	u.discard(ctx, &domain.StoredFile{FileID: "missing"}) // logged only

	stored, _ := u.upload(ctx, "p1", pngFile(), FolderAvatars, imageFile)
	u.discard(ctx, &stored)
	assert.Empty(t, storage.stored)
}

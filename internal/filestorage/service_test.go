package filestorage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/common"
)

type fakeOwner struct {
	current *string
	err     error
}

func (f *fakeOwner) set(ref string) (*string, error) {
	if f.err != nil {
		return nil, f.err
	}
	previous := f.current
	f.current = &ref
	return previous, nil
}

func (f *fakeOwner) SetAvatar(_ context.Context, _ uuid.UUID, _, ref string) (*string, error) {
	return f.set(ref)
}

func (f *fakeOwner) SetLogo(_ context.Context, _ uuid.UUID, _, ref string) (*string, error) {
	return f.set(ref)
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestUploadAvatar_ReplacesPreviousImage(t *testing.T) {
	store := newLocalStore(t)
	owner := &fakeOwner{}
	svc := NewUploadService(store, owner, owner, zap.NewNop())
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.UploadAvatar(ctx, userID, pngBytes)
	require.NoError(t, err)
	first := *owner.current

	_, err = svc.UploadAvatar(ctx, userID, gifBytes)
	require.NoError(t, err)

	assert.NotEqual(t, first, *owner.current)
	assert.Equal(t, 1, countFiles(t, filepath.Join(store.Root(), FolderAvatars)))
}

func TestUploadStartupLogo_PersistFailureRemovesNewImage(t *testing.T) {
	store := newLocalStore(t)
	owner := &fakeOwner{err: common.ErrNotFound}
	svc := NewUploadService(store, owner, owner, zap.NewNop())

	_, err := svc.UploadStartupLogo(context.Background(), uuid.New(), pngBytes)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, 0, countFiles(t, filepath.Join(store.Root(), FolderLogos)))
}

type failingDeleteStore struct {
	ImageStore
}

func (failingDeleteStore) Delete(context.Context, string) error { return errors.New("bucket unavailable") }

func TestUpload_PreviousDeleteFailureIsIgnored(t *testing.T) {
	owner := &fakeOwner{}
	svc := NewUploadService(failingDeleteStore{newLocalStore(t)}, owner, owner, zap.NewNop())
	ctx := context.Background()

	_, err := svc.UploadAvatar(ctx, uuid.New(), pngBytes)
	require.NoError(t, err)
	_, err = svc.UploadAvatar(ctx, uuid.New(), pngBytes)
	assert.NoError(t, err)
}

func multipartRequest(t *testing.T, path, field string, content []byte) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, "upload.bin")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandler_Upload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	owner := &fakeOwner{}
	svc := NewUploadService(newLocalStore(t), owner, owner, zap.NewNop())
	handler := NewHandler(svc, 64, zap.NewNop())

	router := gin.New()
	authMW := func(c *gin.Context) { c.Set(common.UserIDKey, uuid.New()) }
	founderOnly := func(c *gin.Context) { c.Next() }
	handler.RegisterRoutes(router.Group("/api/v1"), authMW, founderOnly)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/upload/avatar", "image", pngBytes))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, owner.current)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/upload/startup-logo", "image", bytes.Repeat([]byte{0xFF}, 100)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "oversized upload")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/upload/avatar", "file", pngBytes))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "wrong field name")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/upload/avatar", "image", []byte("plain text body")))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "not an image")
}

package firebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"startupteam_backend/internal/config"
)

func TestDownloadURL_EscapesObjectPath(t *testing.T) {
	got := downloadURL("demo.appspot.com", "avatars/abc.png", "tok-1")
	assert.Equal(t, "https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatars%2Fabc.png?alt=media&token=tok-1", got)
}

func TestNewStorageStore_RequiresCredentials(t *testing.T) {
	_, err := NewStorageStore(context.Background(), &config.Config{}, zap.NewNop())
	require.Error(t, err)
}

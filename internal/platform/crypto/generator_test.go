package crypto

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHexToken(t *testing.T) {
	tok, err := GenerateHexToken(32)
	require.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), tok)

	other, err := GenerateHexToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^[0-9]{6}$`), code)

	_, err = GenerateNumericCode(0)
	assert.Error(t, err)
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.NotEmpty(t, s)
	assert.NotContains(t, s, "=")
}

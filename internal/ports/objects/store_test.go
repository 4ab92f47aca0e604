package objects

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoKey(t *testing.T) {
	k, err := PhotoKey("owner-1", "image/jpeg; charset=binary")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(k, "owner-1/"))
	assert.True(t, strings.HasSuffix(k, ".jpg"))

	_, err = PhotoKey("owner-1", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = PhotoKey(" ", "image/png")
	assert.Error(t, err)
}

package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseAdapterCheckAuth(t *testing.T) {
	b := NewBaseAdapter("Spotify")

	err := b.CheckAuth()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Contains(t, err.Error(), "Spotify")
	assert.False(t, b.IsAuthenticated())

	b.SetAuthenticated(true)
	assert.NoError(t, b.CheckAuth())
	assert.Equal(t, "Spotify", b.PlatformName())
}

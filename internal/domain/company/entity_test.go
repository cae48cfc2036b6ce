package company

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCompany(t *testing.T) {
	c, err := NewCompany(3, "  Acme Books ", "", "https://acme.example.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme Books", c.Name)
	assert.Equal(t, uint(3), c.OwnerID)
	assert.True(t, c.IsOwnedBy(3))
	assert.False(t, c.IsOwnedBy(4))

	_, err = NewCompany(3, " ", "", "")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NewCompany(3, strings.Repeat("x", 256), "", "")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestUpdateWebsite(t *testing.T) {
	c, err := NewCompany(1, "Acme", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Update("Acme", "", "acme.example.com"), ErrInvalidWebsite)
	assert.ErrorIs(t, c.Update("Acme", "", "ftp://acme.example.com"), ErrInvalidWebsite)
	assert.Empty(t, c.Website, "失败时不修改")

	require.NoError(t, c.Update("Acme Ltd", "books", "http://acme.example.com/about"))
	assert.Equal(t, "Acme Ltd", c.Name)
	assert.Equal(t, uint(1), c.OwnerID)
}

package ciaconv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.db")
	c, err := NewCatalog(file)
	require.NoError(t, err)

	done, err := c.Converted("a.fnt", "AAAA", "a.json")
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, c.Record("a.fnt", "AAAA", "a.json", ".fnt"))
	require.NoError(t, c.Record("a.fnt", "AAAA", "a.yaml", ".fnt"))

	done, err = c.Converted("a.fnt", "AAAA", "a.json")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = c.Converted("a.fnt", "BBBB", "a.json")
	require.NoError(t, err)
	assert.False(t, done)

	// A changed checksum forgets earlier conversions
	require.NoError(t, c.Record("a.fnt", "BBBB", "a.json", ".fnt"))
	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Close())

	// Reopening keeps the data
	c, err = NewCatalog(file)
	require.NoError(t, err)
	defer c.Close()
	done, err = c.Converted("a.fnt", "BBBB", "a.json")
	require.NoError(t, err)
	assert.True(t, done)
}

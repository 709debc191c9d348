package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/uwg-schema/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_WritesDecodableSamples(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "samples")
	require.NoError(t, run(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 7)

	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		_, err = domain.Decode(data)
		assert.NoError(t, err, e.Name())
	}
}

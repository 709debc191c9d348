package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/uwg-schema/internal/samples"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSamples(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	all, err := samples.All()
	require.NoError(t, err)
	for _, s := range all {
		data, err := samples.JSON(s.Entity)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, s.File), data, 0o600))
	}
	return dir
}

func TestRun_AllSamplesPass(t *testing.T) {
	dir := writeSamples(t)

	var out bytes.Buffer
	code := run(&out, []string{dir}, false)

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "All 7 documents passed.")
	assert.NotContains(t, out.String(), "FAIL")
}

func TestRun_ReportsFirstViolation(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("type: Material\nname: steel\nthermal_conductivity: -1\nvolumetric_heat_capacity: 1\n"), 0o600))

	var out bytes.Buffer
	code := run(&out, []string{bad}, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FAIL")
	assert.Contains(t, out.String(), "at thermal_conductivity")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_StockTable(t *testing.T) {
	dir := writeSamples(t)

	var out bytes.Buffer
	code := run(&out, []string{filepath.Join(dir, "custom_uwg.json")}, true)

	require.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "building stock")
	assert.Contains(t, out.String(), samples.CustomBuildingType)
	assert.Contains(t, out.String(), "extension")
	assert.Contains(t, out.String(), "override")
}

func TestRun_MissingPath(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, []string{filepath.Join(t.TempDir(), "missing.json")}, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "FATAL")
}

func TestRun_EmptyDirectory(t *testing.T) {
	var out bytes.Buffer
	code := run(&out, []string{t.TempDir()}, false)

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "no documents found")
}

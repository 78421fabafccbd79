package main

import (
	"path/filepath"
	"testing"

	"github.com/hupe1980/boardmap/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation_Local(t *testing.T) {
	dir := t.TempDir()

	loc, err := resolveLocation(t.Context(), filepath.Join(dir, "board.bmpk"))
	require.NoError(t, err)
	assert.Equal(t, "board.bmpk", loc.name)
	assert.IsType(t, &blobstore.LocalStore{}, loc.store)

	loc, err = resolveLocation(t.Context(), "board.bmpk")
	require.NoError(t, err)
	assert.Equal(t, "board.bmpk", loc.name)
}

func TestResolveLocation_Minio(t *testing.T) {
	loc, err := resolveLocation(t.Context(), "minio://localhost:9000/boards/2024/board.bmpk")
	require.NoError(t, err)
	assert.Equal(t, "board.bmpk", loc.name)
}

func TestResolveLocation_Errors(t *testing.T) {
	for _, loc := range []string{
		t.TempDir() + "/",
		"ftp://host/board.bmpk",
		"s3://bucket/",
		"minio://localhost:9000/bucket",
	} {
		_, err := resolveLocation(t.Context(), loc)
		assert.Error(t, err, loc)
	}
}

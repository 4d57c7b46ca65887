package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	tests := map[string]bool{
		"cat.JPG":   true,
		"cat.jpeg":  true,
		"meme.webp": true,
		"anim.gif":  true,
		"notes.txt": false,
		"noext":     false,
		"scan.tiff": false,
		"photo.png": true,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsImageFile(name), name)
	}
}

func TestTimestampedFilename(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "meme_1700000000123.png", TimestampedFilename("meme", now, "png"))
	assert.Equal(t, "meme_1700000000123.webp", TimestampedFilename("meme", now, ".webp"))
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meme.png")
	assert.Equal(t, path, UniquePath(path))

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	second := UniquePath(path)
	assert.Equal(t, filepath.Join(dir, "meme (1).png"), second)

	require.NoError(t, os.WriteFile(second, []byte("x"), 0o644))
	assert.Equal(t, filepath.Join(dir, "meme (2).png"), UniquePath(path))
}

func TestEnsureDirAndExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.False(t, Exists(dir))
	require.NoError(t, EnsureDir(dir))
	assert.True(t, Exists(dir))
	assert.False(t, FileExists(dir))
	require.NoError(t, EnsureDir(dir))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", SanitizeFilename("a/b:c"))
	assert.Equal(t, "meme", SanitizeFilename("  meme.. "))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "2.0 MB", FormatFileSize(2*1024*1024))
}

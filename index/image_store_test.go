package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCover(t *testing.T, dir string, format video.Format, width, height int) string {
	t.Helper()
	f := video.NewFrame(width, height, 3)
	for i := range f.Pix {
		f.Pix[i] = byte(i * 17)
	}
	path := filepath.Join(dir, "cover"+format.Ext())
	require.NoError(t, video.SaveFrame(path, f, format))
	return path
}

func newTestStore(t *testing.T, cfg ImageStoreConfig) *ImageStore {
	t.Helper()
	store, err := NewImageStore(cfg)
	require.NoError(t, err)
	return store
}

func TestImageStoreRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tests := []struct {
		name   string
		format video.Format
		suite  crypto.Suite
	}{
		{"png aes", video.FormatPNG, crypto.SuiteAES256GCM},
		{"bmp aes", video.FormatBMP, crypto.SuiteAES256GCM},
		{"png xchacha", video.FormatPNG, crypto.SuiteXChaCha20Poly1305},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			store := newTestStore(t, ImageStoreConfig{
				Path:  filepath.Join(dir, "index.png"),
				Cover: writeCover(t, dir, tt.format, 32, 32),
				Key:   key,
				Suite: tt.suite,
			})

			require.NoError(t, store.Put(video.Selection{2, 3, 4}))

			reader := newTestStore(t, ImageStoreConfig{
				Path:  store.Path(),
				Key:   key,
				Suite: tt.suite,
			})
			got, err := reader.Get()
			require.NoError(t, err)
			assert.Equal(t, video.Selection{2, 3, 4}, got)
		})
	}
}

func TestImageStoreWrongKey(t *testing.T) {
	dir := t.TempDir()
	key, _ := crypto.GenerateKey()
	other, _ := crypto.GenerateKey()

	store := newTestStore(t, ImageStoreConfig{
		Path:  filepath.Join(dir, "index.png"),
		Cover: writeCover(t, dir, video.FormatPNG, 32, 32),
		Key:   key,
	})
	require.NoError(t, store.Put(video.Selection{7, 1}))

	_, err := newTestStore(t, ImageStoreConfig{Path: store.Path(), Key: other}).Get()
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestImageStoreCoverTooSmall(t *testing.T) {
	dir := t.TempDir()
	key, _ := crypto.GenerateKey()
	path := filepath.Join(dir, "index.png")

	store := newTestStore(t, ImageStoreConfig{
		Path:  path,
		Cover: writeCover(t, dir, video.FormatPNG, 4, 4),
		Key:   key,
	})

	err := store.Put(video.Selection{2, 3, 4})
	assert.ErrorIs(t, err, video.ErrCapacity)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no artifact is written on failure")
}

func TestImageStoreErrors(t *testing.T) {
	key, _ := crypto.GenerateKey()
	dir := t.TempDir()

	_, err := NewImageStore(ImageStoreConfig{Key: key})
	assert.Error(t, err)

	_, err = NewImageStore(ImageStoreConfig{Path: "index.png"})
	assert.ErrorIs(t, err, crypto.ErrInvalidKey)

	store := newTestStore(t, ImageStoreConfig{Path: filepath.Join(dir, "index.png"), Key: key})
	assert.ErrorIs(t, store.Put(video.Selection{1}), ErrNoCover)

	_, err = store.Get()
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestImageStoreSubkeyIsolation(t *testing.T) {
	dir := t.TempDir()
	key, _ := crypto.GenerateKey()

	store := newTestStore(t, ImageStoreConfig{
		Path:  filepath.Join(dir, "index.png"),
		Cover: writeCover(t, dir, video.FormatPNG, 32, 32),
		Key:   key,
	})
	require.NoError(t, store.Put(video.Selection{2, 3, 4}))

	// The index is sealed under a derived key, never the message key itself.
	frame, err := video.LoadFrame(store.Path())
	require.NoError(t, err)
	bits, err := video.DefaultPlan().Extract([]*video.Frame{frame})
	require.NoError(t, err)
	require.NotEmpty(t, bits)

	assert.NotEqual(t, key, store.key)
}

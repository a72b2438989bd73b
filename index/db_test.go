package index

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, dir string) *DB {
	t.Helper()
	db, err := OpenDB(dir)
	require.NoError(t, err)
	return db
}

func TestDBStoreRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	for _, suite := range []crypto.Suite{crypto.SuiteAES256GCM, crypto.SuiteXChaCha20Poly1305} {
		t.Run(suite.String(), func(t *testing.T) {
			db := openTestDB(t, "")
			defer db.Close()

			store, err := db.Store("out.mov", key, suite)
			require.NoError(t, err)
			assert.Equal(t, "out.mov", store.Name())

			require.NoError(t, store.Put(video.Selection{2, 3, 4}))
			sel, err := store.Get()
			require.NoError(t, err)
			assert.Equal(t, video.Selection{2, 3, 4}, sel)

			require.NoError(t, store.Put(video.Selection{9, 1}))
			sel, err = store.Get()
			require.NoError(t, err)
			assert.Equal(t, video.Selection{9, 1}, sel)
		})
	}
}

func TestDBStorePersists(t *testing.T) {
	dir := t.TempDir()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	db := openTestDB(t, dir)
	store, err := db.Store("clip", key, crypto.SuiteAES256GCM)
	require.NoError(t, err)
	require.NoError(t, store.Put(video.Selection{5, 2, 9}))
	require.NoError(t, db.Close())

	db = openTestDB(t, dir)
	defer db.Close()
	store, err = db.Store("clip", key, crypto.SuiteAES256GCM)
	require.NoError(t, err)

	sel, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, video.Selection{5, 2, 9}, sel)
}

func TestDBStoreWrongKey(t *testing.T) {
	db := openTestDB(t, "")
	defer db.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	store, err := db.Store("clip", key, crypto.SuiteAES256GCM)
	require.NoError(t, err)
	require.NoError(t, store.Put(video.Selection{2, 3, 4}))

	reader, err := db.Store("clip", other, crypto.SuiteAES256GCM)
	require.NoError(t, err)
	_, err = reader.Get()
	assert.ErrorIs(t, err, crypto.ErrAuthentication)
}

func TestDBStoreCorruptValue(t *testing.T) {
	db := openTestDB(t, "")
	defer db.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	store, err := db.Store("clip", key, crypto.SuiteAES256GCM)
	require.NoError(t, err)

	require.NoError(t, db.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(dbKeyPrefix+"clip"), []byte{0, 0, 0, 9, 1})
	}))

	_, err = store.Get()
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestDBNamesAndDelete(t *testing.T) {
	db := openTestDB(t, "")
	defer db.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	for _, name := range []string{"b.mkv", "a.mov", "c"} {
		store, err := db.Store(name, key, crypto.SuiteAES256GCM)
		require.NoError(t, err)
		require.NoError(t, store.Put(video.Selection{0}))
	}

	names, err := db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mov", "b.mkv", "c"}, names)

	require.NoError(t, db.Delete("b.mkv"))
	require.NoError(t, db.Delete("missing"))

	names, err = db.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mov", "c"}, names)

	store, err := db.Store("b.mkv", key, crypto.SuiteAES256GCM)
	require.NoError(t, err)
	_, err = store.Get()
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestDBStoreRejects(t *testing.T) {
	db := openTestDB(t, "")
	defer db.Close()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	for _, name := range []string{"", "../escape", ".hidden", "a b"} {
		_, err := db.Store(name, key, crypto.SuiteAES256GCM)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	assert.ErrorIs(t, db.Delete(""), ErrInvalidName)

	_, err = db.Store("clip", crypto.Key{}, crypto.SuiteAES256GCM)
	assert.ErrorIs(t, err, crypto.ErrInvalidKey)

	_, err = db.Store("clip", key, crypto.Suite(9))
	assert.Error(t, err)
}

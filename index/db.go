package index

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/opd-ai/vidstego/av/video"
	"github.com/opd-ai/vidstego/bitstream"
	"github.com/opd-ai/vidstego/checksum"
	"github.com/opd-ai/vidstego/crypto"
	"github.com/sirupsen/logrus"
)

const dbKeyPrefix = "index:"

// ErrInvalidName indicates an index name outside [A-Za-z0-9._-].
var ErrInvalidName = errors.New("invalid index name")

var indexNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// DB is a badger database of sealed frame selections keyed by name, usually
// the base name of the carrier video.
type DB struct {
	db *badger.DB
}

// OpenDB opens or creates the database in dir. An empty dir keeps the
// database in memory.
func OpenDB(dir string) (*DB, error) {
	opts := badger.DefaultOptions(dir).WithLoggingLevel(badger.WARNING)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "OpenDB",
		"dir":       dir,
		"in_memory": dir == "",
	}).Debug("Index database opened")

	return &DB{db: db}, nil
}

// Close flushes and closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

func dbKey(name string) ([]byte, error) {
	if !indexNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return []byte(dbKeyPrefix + name), nil
}

// Names lists the stored index names in key order.
func (d *DB) Names() ([]string, error) {
	var names []string
	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(dbKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			names = append(names, strings.TrimPrefix(string(it.Item().Key()), dbKeyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list index database: %w", err)
	}
	return names, nil
}

// Delete removes the index stored under name. Deleting a missing name is
// not an error.
func (d *DB) Delete(name string) error {
	key, err := dbKey(name)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Store returns a Store for the selection kept under name, sealed under a
// subkey of key.
func (d *DB) Store(name string, key crypto.Key, suite crypto.Suite) (*DBStore, error) {
	k, err := dbKey(name)
	if err != nil {
		return nil, err
	}
	if key.IsZero() {
		return nil, fmt.Errorf("%w: zero key", crypto.ErrInvalidKey)
	}

	codec, err := bitstream.NewCodec(bitstream.LayoutFor(suite))
	if err != nil {
		return nil, err
	}
	subkey, err := crypto.DeriveSubkey(key, SubkeyLabel)
	if err != nil {
		return nil, err
	}

	return &DBStore{
		db:    d.db,
		name:  name,
		key:   k,
		seal:  subkey,
		suite: suite,
		codec: codec,
	}, nil
}

// DBStore is one named entry of a DB. The stored value uses the payload
// byte layout: length prefix, nonce, ciphertext, tag and digest.
type DBStore struct {
	db    *badger.DB
	name  string
	key   []byte
	seal  crypto.Key
	suite crypto.Suite
	codec *bitstream.Codec
}

// Name returns the index name.
func (s *DBStore) Name() string {
	return s.name
}

// Put seals sel and replaces the stored entry.
func (s *DBStore) Put(sel video.Selection) error {
	record, err := EncodeSelection(sel)
	if err != nil {
		return err
	}

	pkg, err := crypto.EncryptWithSuite(record, s.seal, s.suite)
	if err != nil {
		return fmt.Errorf("failed to seal frame index: %w", err)
	}
	value, err := s.codec.Marshal(pkg, checksum.Compute(record))
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, value)
	})
	if err != nil {
		return fmt.Errorf("persist frame index: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "DBStore.Put",
		"name":     s.name,
		"count":    len(sel),
	}).Info("Frame index stored")
	return nil
}

// Get opens the stored entry. A missing entry fails with ErrNoIndex and a
// wrong key with crypto.ErrAuthentication.
func (s *DBStore) Get() (video.Selection, error) {
	logger := logrus.WithFields(logrus.Fields{
		"function": "DBStore.Get",
		"name":     s.name,
	})

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNoIndex, s.name)
	}
	if err != nil {
		return nil, fmt.Errorf("read frame index: %w", err)
	}

	pkg, digest, err := s.codec.Unmarshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}
	record, err := crypto.DecryptWithSuite(pkg, s.seal, s.suite)
	if err != nil {
		logger.WithError(err).Error("Frame index failed authentication")
		return nil, err
	}
	if checksum.Check(record, digest) != checksum.StatusVerified {
		logger.Warn("Frame index checksum mismatch")
	}

	return DecodeSelection(record)
}

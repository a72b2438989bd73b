package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the size of a key ring's PBKDF2 salt.
	SaltSize = 32
	// KeyRingVersion is the on-disk format version of stored keys.
	KeyRingVersion = 1

	keyExt   = ".key"
	saltName = ".salt"
)

// ErrKeyNotFound indicates a key ring has no key under the requested name.
var ErrKeyNotFound = errors.New("key not found")

var keyNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// KeyRing stores named message keys in a directory, sealed at rest under a
// key derived from a passphrase and a per-ring random salt.
type KeyRing struct {
	sealKey  Key
	dir      string
	saltFile string
}

// OpenKeyRing opens or creates the key ring in dir. The passphrase is wiped
// after derivation.
func OpenKeyRing(dir string, passphrase []byte) (*KeyRing, error) {
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: key ring passphrase cannot be empty", ErrInvalidKey)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key ring directory: %w", err)
	}

	r := &KeyRing{
		dir:      dir,
		saltFile: filepath.Join(dir, saltName),
	}

	salt, err := r.loadOrGenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize salt: %w", err)
	}

	derived := pbkdf2.Key(passphrase, salt, PBKDF2Iterations, KeySize, sha256.New)
	copy(r.sealKey[:], derived)
	ZeroBytes(derived)
	ZeroBytes(passphrase)

	return r, nil
}

func (r *KeyRing) loadOrGenerateSalt() ([]byte, error) {
	data, err := os.ReadFile(r.saltFile)
	if err == nil {
		if len(data) != SaltSize {
			return nil, fmt.Errorf("invalid salt file size: got %d, want %d", len(data), SaltSize)
		}
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := os.WriteFile(r.saltFile, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to save salt: %w", err)
	}
	return salt, nil
}

func (r *KeyRing) path(name string) (string, error) {
	if !keyNamePattern.MatchString(name) {
		return "", fmt.Errorf("%w: key name %q", ErrInvalidKey, name)
	}
	return filepath.Join(r.dir, name+keyExt), nil
}

// Store seals key under name, replacing any previous key of that name.
// Format: [version:2][nonce][ciphertext][tag], AES-256-GCM.
func (r *KeyRing) Store(name string, key Key) error {
	path, err := r.path(name)
	if err != nil {
		return err
	}

	pkg, err := Encrypt(key[:], r.sealKey)
	if err != nil {
		return err
	}

	out := make([]byte, 2, 2+pkg.Size())
	binary.BigEndian.PutUint16(out, KeyRingVersion)
	out = append(out, pkg.Nonce...)
	out = append(out, pkg.Ciphertext...)
	out = append(out, pkg.Tag...)

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, out, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	NewLogger("KeyRing.Store").WithField("name", name).Debug("Key stored")
	return nil
}

// Load opens the key stored under name. A wrong passphrase or a modified file
// fails with ErrAuthentication.
func (r *KeyRing) Load(name string) (Key, error) {
	path, err := r.path(name)
	if err != nil {
		return Key{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Key{}, fmt.Errorf("%w: %s", ErrKeyNotFound, name)
		}
		return Key{}, fmt.Errorf("failed to read key file: %w", err)
	}

	nonceSize := SuiteAES256GCM.NonceSize()
	if len(data) != 2+nonceSize+KeySize+TagSize {
		return Key{}, fmt.Errorf("%w: key file %s is %d bytes", ErrAuthentication, name, len(data))
	}
	if v := binary.BigEndian.Uint16(data); v != KeyRingVersion {
		return Key{}, fmt.Errorf("unsupported key file version: %d (expected %d)", v, KeyRingVersion)
	}

	body := data[2:]
	plaintext, err := Decrypt(&Package{
		Nonce:      body[:nonceSize],
		Ciphertext: body[nonceSize : nonceSize+KeySize],
		Tag:        body[nonceSize+KeySize:],
	}, r.sealKey)
	if err != nil {
		return Key{}, err
	}
	defer ZeroBytes(plaintext)

	var key Key
	copy(key[:], plaintext)
	return key, nil
}

// Names lists the stored key names in sorted order.
func (r *KeyRing) Names() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list key ring: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), keyExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), keyExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete overwrites and removes the key stored under name. Deleting a
// missing key is not an error.
func (r *KeyRing) Delete(name string) error {
	path, err := r.path(name)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat file: %w", err)
	}

	// Best-effort overwrite before removal.
	_ = os.WriteFile(path, make([]byte, info.Size()), 0o600)
	return os.Remove(path)
}

// Close wipes the sealing key. The key ring must not be used afterwards.
func (r *KeyRing) Close() error {
	r.sealKey.Wipe()
	return nil
}

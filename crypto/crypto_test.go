package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allSuites = []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	messages := [][]byte{
		{},
		[]byte("Hello World"),
		bytes.Repeat([]byte{0xAB}, 4096),
	}

	for _, suite := range allSuites {
		for _, msg := range messages {
			key, err := GenerateKey()
			require.NoError(t, err)

			pkg, err := EncryptWithSuite(msg, key, suite)
			require.NoError(t, err)
			assert.Len(t, pkg.Nonce, suite.NonceSize())
			assert.Len(t, pkg.Tag, TagSize)
			assert.Len(t, pkg.Ciphertext, len(msg))

			got, err := DecryptWithSuite(pkg, key, suite)
			require.NoError(t, err, "suite %s", suite)
			assert.True(t, bytes.Equal(msg, got), "suite %s: plaintext mismatch", suite)
		}
	}
}

func TestDecryptEmptyMessageIsNotNil(t *testing.T) {
	for _, suite := range allSuites {
		key, err := GenerateKey()
		require.NoError(t, err)

		pkg, err := EncryptWithSuite([]byte{}, key, suite)
		require.NoError(t, err)

		got, err := DecryptWithSuite(pkg, key, suite)
		require.NoError(t, err)
		assert.NotNil(t, got, "suite %s", suite)
		assert.Equal(t, []byte{}, got, "suite %s", suite)
	}
}

func TestEncryptDefaultsToAESGCM(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	pkg, err := Encrypt([]byte("Hello World"), key)
	require.NoError(t, err)
	assert.Len(t, pkg.Nonce, SuiteAES256GCM.NonceSize())

	got, err := Decrypt(pkg, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello World"), got)
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 64; i++ {
		pkg, err := Encrypt([]byte("same message"), key)
		require.NoError(t, err)
		nonce := string(pkg.Nonce)
		assert.False(t, seen[nonce], "nonce reused on iteration %d", i)
		seen[nonce] = true
	}
}

func TestDecryptDetectsTampering(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	msg := []byte("Hello World")

	for _, suite := range allSuites {
		pkg, err := EncryptWithSuite(msg, key, suite)
		require.NoError(t, err)

		// Flip every bit of the ciphertext and tag in turn.
		fields := map[string][]byte{
			"ciphertext": pkg.Ciphertext,
			"tag":        pkg.Tag,
			"nonce":      pkg.Nonce,
		}
		for name, field := range fields {
			for i := 0; i < len(field)*8; i++ {
				field[i/8] ^= 1 << (i % 8)
				got, err := DecryptWithSuite(pkg, key, suite)
				field[i/8] ^= 1 << (i % 8)

				if !errors.Is(err, ErrAuthentication) {
					t.Fatalf("%s: flipping %s bit %d: err = %v, want ErrAuthentication", suite, name, i, err)
				}
				if got != nil {
					t.Fatalf("%s: flipping %s bit %d released plaintext", suite, name, i)
				}
			}
		}
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key1, err := GenerateKey()
	require.NoError(t, err)
	key2, err := GenerateKey()
	require.NoError(t, err)

	pkg, err := Encrypt([]byte("Hello World"), key1)
	require.NoError(t, err)

	_, err = Decrypt(pkg, key2)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestDecryptMalformedPackage(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	good, err := Encrypt([]byte("Hello World"), key)
	require.NoError(t, err)

	tests := []struct {
		name string
		pkg  *Package
	}{
		{"nil package", nil},
		{"short nonce", &Package{Nonce: good.Nonce[:11], Ciphertext: good.Ciphertext, Tag: good.Tag}},
		{"long nonce", &Package{Nonce: append(append([]byte{}, good.Nonce...), 0), Ciphertext: good.Ciphertext, Tag: good.Tag}},
		{"short tag", &Package{Nonce: good.Nonce, Ciphertext: good.Ciphertext, Tag: good.Tag[:15]}},
		{"missing tag", &Package{Nonce: good.Nonce, Ciphertext: good.Ciphertext}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decrypt(tt.pkg, key)
			assert.ErrorIs(t, err, ErrAuthentication)
			assert.Nil(t, got)
		})
	}
}

func TestDecryptSuiteMismatch(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	pkg, err := EncryptWithSuite([]byte("Hello World"), key, SuiteXChaCha20Poly1305)
	require.NoError(t, err)

	_, err = DecryptWithSuite(pkg, key, SuiteAES256GCM)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestUnknownSuite(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	_, err = EncryptWithSuite([]byte("x"), key, Suite(99))
	assert.ErrorIs(t, err, ErrUnknownSuite)
	assert.Equal(t, 0, Suite(99).NonceSize())
	assert.Equal(t, "suite(99)", Suite(99).String())
}

func TestParseSuite(t *testing.T) {
	tests := []struct {
		input   string
		want    Suite
		wantErr bool
	}{
		{"aes-256-gcm", SuiteAES256GCM, false},
		{" AES-256-GCM ", SuiteAES256GCM, false},
		{"xchacha20-poly1305", SuiteXChaCha20Poly1305, false},
		{"rot13", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSuite(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSuite)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, name string) Suite {
	t.Helper()
	s, err := ParseSuite(name)
	require.NoError(t, err)
	return s
}

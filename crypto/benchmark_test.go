package crypto

import (
	"testing"
)

// BenchmarkGenerateKey measures key generation performance
func BenchmarkGenerateKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := GenerateKey(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkEncrypt measures sealing performance for each suite
func BenchmarkEncrypt(b *testing.B) {
	key, err := GenerateKey()
	if err != nil {
		b.Fatal(err)
	}
	message := make([]byte, 64*1024)

	for _, suite := range []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305} {
		b.Run(suite.String(), func(b *testing.B) {
			b.SetBytes(int64(len(message)))
			for i := 0; i < b.N; i++ {
				if _, err := EncryptWithSuite(message, key, suite); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecrypt measures opening performance for each suite
func BenchmarkDecrypt(b *testing.B) {
	key, err := GenerateKey()
	if err != nil {
		b.Fatal(err)
	}
	message := make([]byte, 64*1024)

	for _, suite := range []Suite{SuiteAES256GCM, SuiteXChaCha20Poly1305} {
		pkg, err := EncryptWithSuite(message, key, suite)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(suite.String(), func(b *testing.B) {
			b.SetBytes(int64(len(message)))
			for i := 0; i < b.N; i++ {
				if _, err := DecryptWithSuite(pkg, key, suite); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkKeyFromPassphrase measures PBKDF2 derivation cost
func BenchmarkKeyFromPassphrase(b *testing.B) {
	passphrase := []byte("correct horse battery staple")
	for i := 0; i < b.N; i++ {
		if _, err := KeyFromPassphrase(passphrase); err != nil {
			b.Fatal(err)
		}
	}
}

// Package crypto implements the authenticated encryption layer of vidstego.
//
// A message is sealed into a self-contained [Package] holding the nonce, the
// ciphertext and the authentication tag as separate fields, so the bitstream
// codec can lay them out at fixed boundaries.
//
// # Cipher Suites
//
// Two AEAD suites are supported. Both take a 32-byte [Key] and produce a
// 16-byte tag; they differ in nonce length:
//
//   - [SuiteAES256GCM]: AES-256 in GCM mode, 12-byte nonce (default)
//   - [SuiteXChaCha20Poly1305]: XChaCha20-Poly1305, 24-byte nonce
//
// The suite is a protocol constant that encoder and decoder must agree on.
//
// # Encryption and Decryption
//
//	key, _ := crypto.GenerateKey()
//	defer key.Wipe()
//
//	pkg, err := crypto.Encrypt([]byte("Hello World"), key)
//	if err != nil {
//	    return err
//	}
//
//	plaintext, err := crypto.Decrypt(pkg, key)
//	if errors.Is(err, crypto.ErrAuthentication) {
//	    // tampered or malformed package, nothing is released
//	}
//
// Nonces are always generated internally from crypto/rand. There is no API
// that accepts a caller supplied nonce for encryption.
//
// # Keys
//
// Keys may be generated, parsed from hex, derived from a passphrase with
// PBKDF2-SHA256, or derived from another key for a specific purpose with
// HKDF-SHA256:
//
//	key, _ := crypto.KeyFromPassphrase([]byte("correct horse battery staple"))
//	indexKey, _ := crypto.DeriveSubkey(key, "frame-index")
//
// # Logging
//
// Operations log through logrus with a "package" and "function" field. Only
// sizes and short previews of non-secret values such as nonces are logged.
package crypto

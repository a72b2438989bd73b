package crypto

import "fmt"

// Decrypt opens a package sealed with AES-256-GCM.
func Decrypt(pkg *Package, key Key) ([]byte, error) {
	return DecryptWithSuite(pkg, key, SuiteAES256GCM)
}

// DecryptWithSuite opens a package sealed with the given suite. A package with
// a wrong nonce or tag length, or whose tag does not verify, fails with
// ErrAuthentication.
func DecryptWithSuite(pkg *Package, key Key, suite Suite) ([]byte, error) {
	log := NewLogger("DecryptWithSuite").WithField("suite", suite.String())

	if pkg == nil {
		return nil, fmt.Errorf("%w: nil package", ErrAuthentication)
	}
	if len(pkg.Nonce) != suite.NonceSize() {
		log.WithField("nonce_size", len(pkg.Nonce)).Warn("Rejecting package with malformed nonce")
		return nil, fmt.Errorf("%w: nonce is %d bytes, want %d", ErrAuthentication, len(pkg.Nonce), suite.NonceSize())
	}
	if len(pkg.Tag) != suite.TagSize() {
		log.WithField("tag_size", len(pkg.Tag)).Warn("Rejecting package with malformed tag")
		return nil, fmt.Errorf("%w: tag is %d bytes, want %d", ErrAuthentication, len(pkg.Tag), suite.TagSize())
	}

	aead, err := suite.aead(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(pkg.Ciphertext)+len(pkg.Tag))
	sealed = append(sealed, pkg.Ciphertext...)
	sealed = append(sealed, pkg.Tag...)

	plaintext, err := aead.Open(make([]byte, 0, len(pkg.Ciphertext)), pkg.Nonce, sealed, nil)
	if err != nil {
		log.WithFields(PreviewFields(pkg.Nonce, "nonce")).Warn("Tag verification failed")
		return nil, ErrAuthentication
	}

	log.WithField("plaintext_size", len(plaintext)).Debug("Package opened")
	return plaintext, nil
}

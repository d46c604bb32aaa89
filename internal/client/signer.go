package client

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"sync"

	"vittlify/internal/domain/errors/domain"

	"golang.org/x/crypto/ssh"
)

// Signer produces the base64 signature sent alongside a canonical message.
type Signer interface {
	Sign(message []byte) (string, error)
}

// RSASigner signs with RSA-PSS over SHA-512 (MGF1 with SHA-512, maximum salt).
// The key is read from disk on the first Sign call and reused afterwards.
type RSASigner struct {
	path string

	once sync.Once
	key  *rsa.PrivateKey
	err  error
}

// NewRSASigner returns a signer that loads its key from path on first use.
func NewRSASigner(path string) *RSASigner {
	return &RSASigner{path: path}
}

// NewRSASignerFromKey returns a signer for an already loaded key.
func NewRSASignerFromKey(key *rsa.PrivateKey) *RSASigner {
	s := &RSASigner{key: key}
	s.once.Do(func() {})
	return s
}

// Sign signs exactly the given bytes and returns the base64 encoded signature.
func (s *RSASigner) Sign(message []byte) (string, error) {
	s.once.Do(func() {
		s.key, s.err = loadPrivateKey(s.path)
	})
	if s.err != nil {
		return "", s.err
	}

	digest := sha512.Sum512(message)
	signature, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA512, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
		Hash:       crypto.SHA512,
	})
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// loadPrivateKey accepts PKCS#1, PKCS#8 and OpenSSH encoded RSA keys.
func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("could not find private key at %s", path),
			fmt.Errorf("%w: %w", domain.ErrPrivateKeyNotFound, err))
	}

	raw, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			return nil, domain.NewConfigurationError(
				fmt.Sprintf("private key at %s is passphrase protected", path), err)
		}
		return nil, domain.NewConfigurationError(fmt.Sprintf("could not parse private key at %s", path), err)
	}

	key, ok := raw.(*rsa.PrivateKey)
	if !ok {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("private key at %s is %T, not RSA", path, raw), nil)
	}

	return key, nil
}

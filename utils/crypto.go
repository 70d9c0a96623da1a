package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Snapshot-at-rest encryption. The AES-256 key is derived from the
// process-wide secret with PBKDF2; the secret must stay identical across
// the process's lifetime or previously encrypted snapshots become
// unreadable.
const (
	keySalt       = "tool-availability-lookup"
	keyIterations = 100_000
	keyLength     = 32
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

func deriveKey(secret string) []byte {
	return pbkdf2.Key([]byte(secret), []byte(keySalt), keyIterations, keyLength, sha256.New)
}

// EncryptBytes seals plaintext with AES-256-GCM under a key derived from
// secret. The random nonce is prepended to the returned ciphertext.
func EncryptBytes(secret string, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// DecryptBytes reverses EncryptBytes. A wrong secret or a corrupted or
// truncated ciphertext fails closed with an error; it never returns
// partial plaintext.
func DecryptBytes(secret string, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decrypt snapshot: %w", err)
	}
	return plaintext, nil
}

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

// tokenSealer encrypts provider refresh tokens at rest with AES-256-GCM.
// The provider subject is bound as additional data, so a sealed value copied
// onto another identity fails to open. A zero sealer stores nothing.
type tokenSealer struct {
	aead cipher.AEAD
}

func newTokenSealer(secret string) tokenSealer {
	if secret == "" {
		return tokenSealer{}
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return tokenSealer{}
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return tokenSealer{}
	}
	return tokenSealer{aead: aead}
}

func (t tokenSealer) seal(subject, plaintext string) (string, error) {
	if t.aead == nil || plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, t.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := t.aead.Seal(nonce, nonce, []byte(plaintext), []byte(subject))
	return base64.RawStdEncoding.EncodeToString(out), nil
}

func (t tokenSealer) open(subject, sealed string) (string, error) {
	if t.aead == nil || sealed == "" {
		return "", nil
	}
	raw, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	size := t.aead.NonceSize()
	if len(raw) <= size {
		return "", errors.New("sealed token too short")
	}
	plain, err := t.aead.Open(nil, raw[:size], raw[size:], []byte(subject))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// Blob is one sealed payload: IV, ciphertext and GCM tag kept apart so they
// can be stored as separate fields.
type Blob struct {
	IV         []byte
	Ciphertext []byte
	Tag        []byte
}

// Encrypt seals plaintext under key with a fresh random IV.
func (e *Engine) Encrypt(plaintext, key []byte) (Blob, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return Blob{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(e.rand, iv); err != nil {
		return Blob{}, fmt.Errorf("failed to read random iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - TagSize

	return Blob{
		IV:         iv,
		Ciphertext: sealed[:split:split],
		Tag:        sealed[split:],
	}, nil
}

// Decrypt opens b with key. Any integrity failure, including a blob whose IV
// or tag has the wrong length, is reported as ErrAuthentication.
func (e *Engine) Decrypt(b Blob, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(b.IV) != IVSize || len(b.Tag) != TagSize {
		return nil, fmt.Errorf("%w: malformed blob", ErrAuthentication)
	}

	sealed := make([]byte, 0, len(b.Ciphertext)+len(b.Tag))
	sealed = append(sealed, b.Ciphertext...)
	sealed = append(sealed, b.Tag...)

	plaintext, err := gcm.Open(nil, b.IV, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKey, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

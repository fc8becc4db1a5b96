package crypto

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Params{Memory: 1024, Time: 1, Parallelism: 1})
	require.NoError(t, err)
	return e
}

func testKey(t *testing.T, e *Engine) []byte {
	t.Helper()
	salt, err := e.GenerateSalt()
	require.NoError(t, err)
	key, err := e.DeriveKey("correct horse", salt)
	require.NoError(t, err)
	return key
}

func TestNew_RejectsWeakParams(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{"memory too low", Params{Memory: 512, Time: 1, Parallelism: 1}},
		{"zero time", Params{Memory: 1024, Time: 0, Parallelism: 1}},
		{"zero parallelism", Params{Memory: 1024, Time: 1, Parallelism: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := Default().Params()
	assert.Equal(t, uint32(64*1024), p.Memory)
	assert.Equal(t, uint32(3), p.Time)
	assert.Equal(t, uint8(4), p.Parallelism)
}

func TestGenerateSaltAndID(t *testing.T) {
	e := fastEngine(t)

	a, err := e.GenerateSalt()
	require.NoError(t, err)
	b, err := e.GenerateSalt()
	require.NoError(t, err)

	assert.Len(t, a, SaltSize)
	assert.NotEqual(t, a, b)

	id := e.GenerateID()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
	assert.NotEqual(t, id, e.GenerateID())
}

func TestDeriveKey(t *testing.T) {
	e := fastEngine(t)
	salt := bytes.Repeat([]byte{7}, SaltSize)

	k1, err := e.DeriveKey("pw", salt)
	require.NoError(t, err)
	k2, err := e.DeriveKey("pw", salt)
	require.NoError(t, err)
	k3, err := e.DeriveKey("pw2", salt)
	require.NoError(t, err)

	assert.Len(t, k1, KeySize)
	assert.Equal(t, k1, k2, "derivation must be deterministic")
	assert.NotEqual(t, k1, k3)

	_, err = e.DeriveKey("pw", nil)
	assert.ErrorIs(t, err, ErrInvalidSalt)
}

func TestDeriveKey_DefaultParams(t *testing.T) {
	if testing.Short() {
		t.Skip("memory-hard derivation skipped in short mode")
	}
	e := Default()
	salt := bytes.Repeat([]byte{1}, SaltSize)

	k1, err := e.DeriveKey("abcd1234", salt)
	require.NoError(t, err)
	k2, err := e.DeriveKey("abcd1234", salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	e := fastEngine(t)
	key := testKey(t, e)

	for _, plaintext := range [][]byte{
		[]byte(""),
		[]byte("hello"),
		[]byte(`{"type":"doc","content":[{"type":"text","text":"çãõ 日本"}]}`),
		bytes.Repeat([]byte("x"), 1<<16),
	} {
		blob, err := e.Encrypt(plaintext, key)
		require.NoError(t, err)
		assert.Len(t, blob.IV, IVSize)
		assert.Len(t, blob.Tag, TagSize)
		assert.Len(t, blob.Ciphertext, len(plaintext))

		got, err := e.Decrypt(blob, key)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(plaintext, got))
	}
}

func TestEncrypt_FreshIVEachCall(t *testing.T) {
	e := fastEngine(t)
	key := testKey(t, e)

	a, err := e.Encrypt([]byte("same"), key)
	require.NoError(t, err)
	b, err := e.Encrypt([]byte("same"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a.IV, b.IV)
	assert.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestDecrypt_WrongKey(t *testing.T) {
	e := fastEngine(t)
	k1 := testKey(t, e)
	k2 := testKey(t, e)
	require.NotEqual(t, k1, k2)

	blob, err := e.Encrypt([]byte("secret"), k1)
	require.NoError(t, err)

	_, err = e.Decrypt(blob, k2)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestDecrypt_Tampered(t *testing.T) {
	e := fastEngine(t)
	key := testKey(t, e)

	blob, err := e.Encrypt([]byte("secret payload"), key)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(b *Blob)
	}{
		{"ciphertext bit flip", func(b *Blob) { b.Ciphertext[0] ^= 0x01 }},
		{"tag bit flip", func(b *Blob) { b.Tag[3] ^= 0x80 }},
		{"iv bit flip", func(b *Blob) { b.IV[0] ^= 0x01 }},
		{"short tag", func(b *Blob) { b.Tag = b.Tag[:8] }},
		{"short iv", func(b *Blob) { b.IV = b.IV[:12] }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Blob{
				IV:         bytes.Clone(blob.IV),
				Ciphertext: bytes.Clone(blob.Ciphertext),
				Tag:        bytes.Clone(blob.Tag),
			}
			tt.mutate(&c)
			_, err := e.Decrypt(c, key)
			assert.ErrorIs(t, err, ErrAuthentication)
		})
	}
}

func TestInvalidKeyLength(t *testing.T) {
	e := fastEngine(t)

	_, err := e.Encrypt([]byte("x"), make([]byte, 16))
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = e.Decrypt(Blob{IV: make([]byte, IVSize), Tag: make([]byte, TagSize)}, make([]byte, 31))
	assert.ErrorIs(t, err, ErrInvalidKey)
	assert.False(t, errors.Is(err, ErrAuthentication))
}

func TestHashAndVerifyPassword(t *testing.T) {
	e := fastEngine(t)

	hash, err := e.HashPassword("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=1024,t=1,p=1$"), hash)
	assert.NotContains(t, hash, "1234$")

	ok, err := e.VerifyPassword(hash, "1234")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.VerifyPassword(hash, "0000")
	require.NoError(t, err)
	assert.False(t, ok)

	other, err := e.HashPassword("1234")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hash must be salted")
}

func TestVerifyPassword_UsesEmbeddedParams(t *testing.T) {
	cheap := fastEngine(t)
	hash, err := cheap.HashPassword("pw")
	require.NoError(t, err)

	other, err := New(Params{Memory: 2048, Time: 2, Parallelism: 2})
	require.NoError(t, err)

	ok, err := other.VerifyPassword(hash, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPassword_Malformed(t *testing.T) {
	e := fastEngine(t)
	for _, h := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=18$m=1024,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1024,t=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdHNhbHQ$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$c2FsdHNhbHQ$",
	} {
		_, err := e.VerifyPassword(h, "pw")
		assert.ErrorIs(t, err, ErrMalformedHash, "hash %q", h)
	}
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
	Zero(nil)
}

func TestLockUnlock(t *testing.T) {
	b := make([]byte, KeySize)
	// mlock may be refused by RLIMIT_MEMLOCK; only a clean pair is required.
	if err := Lock(b); err != nil {
		t.Skipf("mlock unavailable: %v", err)
	}
	assert.NoError(t, Unlock(b))
	assert.NoError(t, Lock(nil))
}

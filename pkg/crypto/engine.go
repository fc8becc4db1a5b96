package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/argon2"
)

const (
	// KeySize is the length of every symmetric key (AES-256).
	KeySize = 32
	// SaltSize is the length of master and note salts.
	SaltSize = 32
	// IVSize is the GCM nonce length used for note blobs.
	IVSize = 16
	// TagSize is the GCM authentication tag length.
	TagSize = 16

	minMemoryKB    uint32 = 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
)

var (
	// ErrInvalidKey indicates a key that is not exactly KeySize bytes.
	ErrInvalidKey = errors.New("invalid key length")

	// ErrInvalidSalt indicates an empty salt was passed to DeriveKey.
	ErrInvalidSalt = errors.New("invalid salt")

	// ErrAuthentication indicates the AEAD integrity check failed.
	ErrAuthentication = errors.New("wrong password or corrupted data")
)

// Params are the Argon2id cost parameters shared by key derivation and
// password hashing.
type Params struct {
	Memory      uint32 // KiB
	Time        uint32
	Parallelism uint8
}

// DefaultParams returns the production cost parameters.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 4,
	}
}

// Engine bundles the primitives behind one set of Argon2id parameters.
// It is stateless apart from its configuration and safe for concurrent use.
type Engine struct {
	params Params
	rand   io.Reader
}

// New returns an Engine using the given parameters.
func New(p Params) (*Engine, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Engine{params: p, rand: rand.Reader}, nil
}

// Default returns an Engine with DefaultParams.
func Default() *Engine {
	return &Engine{params: DefaultParams(), rand: rand.Reader}
}

// Params reports the engine's cost parameters.
func (e *Engine) Params() Params {
	return e.params
}

// GenerateSalt returns SaltSize random bytes.
func (e *Engine) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(e.rand, salt); err != nil {
		return nil, fmt.Errorf("failed to read random salt: %w", err)
	}
	return salt, nil
}

// GenerateID returns a new random note id.
func (e *Engine) GenerateID() string {
	return uuid.NewString()
}

// DeriveKey stretches password with salt into a KeySize key.
// The result is deterministic for identical inputs.
func (e *Engine) DeriveKey(password string, salt []byte) ([]byte, error) {
	if len(salt) == 0 {
		return nil, ErrInvalidSalt
	}
	return argon2.IDKey([]byte(password), salt, e.params.Time, e.params.Memory, e.params.Parallelism, KeySize), nil
}

func (p Params) validate() error {
	if p.Memory < minMemoryKB {
		return fmt.Errorf("argon2 memory must be >= %d KiB", minMemoryKB)
	}
	if p.Time < minTimeCost {
		return errors.New("argon2 time must be >= 1")
	}
	if p.Parallelism < minParallelism {
		return errors.New("argon2 parallelism must be >= 1")
	}
	return nil
}

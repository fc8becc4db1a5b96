package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	algorithmID      = "argon2id"
	hashSaltSize     = 16
	hashKeySize      = 32
	minHashSaltSize  = 8
	paramSeparator   = ","
	fieldSeparator   = "$"
	phcFieldCount    = 6
	maxPHCParamCount = 3
)

// ErrMalformedHash indicates a stored password hash could not be parsed.
var ErrMalformedHash = errors.New("malformed password hash")

type phc struct {
	params Params
	salt   []byte
	hash   []byte
}

// HashPassword returns a self-describing PHC string:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func (e *Engine) HashPassword(password string) (string, error) {
	salt := make([]byte, hashSaltSize)
	if _, err := io.ReadFull(e.rand, salt); err != nil {
		return "", fmt.Errorf("failed to read random salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, e.params.Time, e.params.Memory, e.params.Parallelism, hashKeySize)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		e.params.Memory,
		e.params.Time,
		e.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword reports whether password matches encodedHash. The cost
// parameters are taken from the hash, not from the engine.
func (e *Engine) VerifyPassword(encodedHash, password string) (bool, error) {
	parsed, err := parsePHC(encodedHash)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		[]byte(password),
		parsed.salt,
		parsed.params.Time,
		parsed.params.Memory,
		parsed.params.Parallelism,
		uint32(len(parsed.hash)),
	)
	defer Zero(computed)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, fieldSeparator)
	if len(parts) != phcFieldCount || parts[0] != "" {
		return nil, fmt.Errorf("%w: invalid PHC format", ErrMalformedHash)
	}
	if parts[1] != algorithmID {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", ErrMalformedHash, parts[1])
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, fmt.Errorf("%w: invalid version", ErrMalformedHash)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedHash, version)
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) < minHashSaltSize {
		return nil, fmt.Errorf("%w: invalid salt", ErrMalformedHash)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(hash) == 0 {
		return nil, fmt.Errorf("%w: invalid hash", ErrMalformedHash)
	}

	return &phc{params: params, salt: salt, hash: hash}, nil
}

func parseParams(part string) (Params, error) {
	var (
		p                                  Params
		memorySet, timeSet, parallelismSet bool
	)

	pairs := strings.Split(part, paramSeparator)
	if len(pairs) != maxPHCParamCount {
		return p, fmt.Errorf("%w: invalid parameter format", ErrMalformedHash)
	}

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return p, fmt.Errorf("%w: invalid parameter entry", ErrMalformedHash)
		}

		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: invalid memory parameter", ErrMalformedHash)
			}
			p.Memory = uint32(n)
			memorySet = true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return p, fmt.Errorf("%w: invalid time parameter", ErrMalformedHash)
			}
			p.Time = uint32(n)
			timeSet = true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil {
				return p, fmt.Errorf("%w: invalid parallelism parameter", ErrMalformedHash)
			}
			p.Parallelism = uint8(n)
			parallelismSet = true
		default:
			return p, fmt.Errorf("%w: unsupported parameter %q", ErrMalformedHash, k)
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return p, fmt.Errorf("%w: missing parameters", ErrMalformedHash)
	}
	if err := p.validate(); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return p, nil
}

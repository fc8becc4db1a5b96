package core

import (
	"errors"
	"fmt"

	"github.com/aretw0/sealnote/pkg/crypto"
)

// Error categories. Every failure surfaced by the stores wraps exactly one
// of these so callers can branch with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNotFound       = errors.New("not found")
	ErrState          = errors.New("invalid state")
)

// Specific errors.
var (
	ErrPasswordTooShort    = fmt.Errorf("%w: master password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrTitleRequired       = fmt.Errorf("%w: title is required", ErrValidation)
	ErrNotePasswordMissing = fmt.Errorf("%w: a password is required for a protected note", ErrValidation)
	ErrNoUpdates           = fmt.Errorf("%w: no updates provided", ErrValidation)
	ErrInvalidContent      = fmt.Errorf("%w: content is not a valid JSON document", ErrValidation)
	ErrUnknownChannel      = fmt.Errorf("%w: unknown channel", ErrValidation)

	ErrWrongPassword = fmt.Errorf("%w: incorrect password", ErrAuthentication)
	ErrNoteLocked    = fmt.Errorf("%w: note is password protected", ErrAuthentication)

	ErrNoteNotFound = fmt.Errorf("%w: note", ErrNotFound)

	ErrVaultExists  = fmt.Errorf("%w: vault already exists", ErrState)
	ErrVaultMissing = fmt.Errorf("%w: vault does not exist", ErrState)

	ErrNotAuthenticated = fmt.Errorf("%w: vault is locked", ErrState)
)

// ErrReadOnly is returned by repositories opened in read-only mode.
var ErrReadOnly = fmt.Errorf("%w: repository is in read-only mode", ErrState)

// Kind is the machine-readable category of an error at the boundary.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindAuthentication Kind = "authentication"
	KindNotFound       Kind = "not_found"
	KindState          Kind = "state"
	KindInternal       Kind = "internal"
)

// KindOf maps err to its category. Anything not wrapping a known sentinel is internal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthentication), errors.Is(err, crypto.ErrAuthentication):
		return KindAuthentication
	case errors.Is(err, ErrValidation), errors.Is(err, crypto.ErrInvalidKey), errors.Is(err, crypto.ErrInvalidSalt):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrState):
		return KindState
	default:
		return KindInternal
	}
}

func decryptFailed(id string, err error) error {
	if errors.Is(err, crypto.ErrAuthentication) {
		return fmt.Errorf("%w: failed to decrypt note %s", ErrAuthentication, id)
	}
	return fmt.Errorf("failed to decrypt note %s: %w", id, err)
}

// Package crypto provides the cryptographic primitives of sealnote.
//
// Everything a vault needs lives here and nothing else in the module touches
// a cipher or a KDF directly:
//
//   - Random material: 32-byte salts (GenerateSalt) and UUIDv4 note ids (GenerateID).
//   - Key derivation: Argon2id with fixed parameters, 32-byte output (DeriveKey).
//   - Authenticated encryption: AES-256-GCM with a fresh 16-byte IV and a
//     16-byte tag per call (Encrypt, Decrypt).
//   - Password verification records: PHC-encoded Argon2id hashes that embed
//     their own salt and parameters (HashPassword, VerifyPassword).
//   - Key hygiene: Zero overwrites buffers, Lock/Unlock pin pages in RAM where
//     the platform allows it.
//
// # Errors
//
// Decrypt reports ErrAuthentication whenever the integrity tag does not match.
// GCM cannot tell a wrong key from tampered ciphertext,
// so callers surface both as "wrong password". ErrInvalidKey is returned for
// keys that are not exactly 32 bytes.
//
// # Parameters
//
// DefaultParams (64 MiB, 3 passes, 4 lanes) are the production values. A vault's
// master key depends on them, so they must never change for an existing
// installation. New accepts other values for tests only.
package crypto

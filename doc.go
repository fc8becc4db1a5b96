// Package sealnote is the composition root of an encrypted local notes
// vault.
//
// A vault is one directory holding a password-protected vault record and a
// pair of files per note: plaintext metadata and an AES-256-GCM content
// blob. The master key is derived from the master password with Argon2id
// and lives only in memory, inside the session, for as long as the vault
// is unlocked. Notes can carry their own password, in which case their
// content is encrypted with an independent key that the master key cannot
// open.
//
// Layout:
//
//	<data dir>/vault.meta
//	<data dir>/notes/note-<id>.meta
//	<data dir>/notes/note-<id>.enc
//
// Usage:
//
//	app, err := sealnote.Open(ctx, dir, sealnote.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer app.Close()
//
//	if res := app.API.UnlockVault(ctx, password); !res.Success {
//		return errors.New(res.Error)
//	}
//	notes, err := app.API.ListNotes(ctx)
package sealnote

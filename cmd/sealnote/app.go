package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/sealnote"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

// EnvPassword supplies the master password without a prompt.
const EnvPassword = "SEALNOTE_PASSWORD"

var (
	markOK     = color.GreenString("✓")
	markFail   = color.RedString("✗")
	markLocked = color.YellowString("locked")
	markArrow  = color.CyanString("→")
)

func openApp(cmd *cobra.Command, opts ...sealnote.Option) (*sealnote.App, error) {
	opts = append([]sealnote.Option{sealnote.WithLogger(logger)}, opts...)
	app, err := sealnote.Open(cmd.Context(), dataDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	return app, nil
}

// openUnlocked opens the vault and unlocks it with the master password.
func openUnlocked(cmd *cobra.Command, opts ...sealnote.Option) (*sealnote.App, error) {
	app, err := openApp(cmd, opts...)
	if err != nil {
		return nil, err
	}
	if err := unlock(cmd.Context(), app); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func unlock(ctx context.Context, app *sealnote.App) error {
	if app.API.IsFirstTime(ctx) {
		return errors.New("no vault here yet, run `sealnote init` first")
	}
	password, err := masterPassword("Master password: ")
	if err != nil {
		return err
	}
	if res := app.API.UnlockVault(ctx, password); !res.Success {
		return errors.New(res.Error)
	}
	return nil
}

func masterPassword(prompt string) (string, error) {
	if p, ok := os.LookupEnv(EnvPassword); ok {
		return p, nil
	}
	return readPassword(prompt)
}

// readPassword prompts on stderr without echoing input.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot read password: stdin is not a terminal (set %s)", EnvPassword)
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	defer crypto.Zero(b)
	return string(b), nil
}

// newPassword prompts twice and insists both entries match.
func newPassword(prompt string) (string, error) {
	first, err := readPassword(prompt)
	if err != nil {
		return "", err
	}
	again, err := readPassword("Repeat: ")
	if err != nil {
		return "", err
	}
	if first != again {
		return "", errors.New("passwords do not match")
	}
	return first, nil
}

// canPrompt reports whether the command reads from an interactive terminal.
func canPrompt(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readContent builds the note content from --doc (a JSON document), --file
// (plain text, "-" reads stdin) or --text. ok is false when none was given.
func readContent(cmd *cobra.Command) (doc core.Document, ok bool, err error) {
	flags := cmd.Flags()
	if path, _ := flags.GetString("doc"); path != "" {
		b, err := readInput(cmd, path)
		if err != nil {
			return nil, false, err
		}
		doc = core.Document(b)
		if !doc.Valid() {
			return nil, false, fmt.Errorf("%s is not valid JSON", path)
		}
		return doc, true, nil
	}
	if path, _ := flags.GetString("file"); path != "" {
		b, err := readInput(cmd, path)
		if err != nil {
			return nil, false, err
		}
		return core.TextDocument(string(b)), true, nil
	}
	if flags.Changed("text") {
		text, _ := flags.GetString("text")
		return core.TextDocument(text), true, nil
	}
	return nil, false, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func addContentFlags(cmd *cobra.Command) {
	cmd.Flags().String("text", "", "Plain text content")
	cmd.Flags().String("file", "", "Read plain text content from a file (- for stdin)")
	cmd.Flags().String("doc", "", "Read a JSON rich-text document from a file (- for stdin)")
	cmd.MarkFlagsMutuallyExclusive("text", "file", "doc")
}

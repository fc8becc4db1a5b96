package sealnote_test

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aretw0/sealnote"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

// Example_basic creates a vault, stores a note and reads it back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "sealnote-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Cheap key derivation keeps the example fast.
	engine, err := crypto.New(crypto.Params{Memory: 1024, Time: 1, Parallelism: 1})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	app, err := sealnote.Open(ctx, tmpDir, sealnote.WithCrypto(engine))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	if res := app.API.CreateVault(ctx, "correct horse"); !res.Success {
		log.Fatal(res.Error)
	}

	created, err := app.API.CreateNote(ctx, core.CreateNote{
		Title:   "Groceries",
		Content: core.Document(`{"type":"doc","content":[{"type":"text","text":"milk, eggs"}]}`),
	})
	if err != nil {
		log.Fatal(err)
	}

	note, err := app.API.GetNote(ctx, created.Note.ID, "")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %s\n", note.Title, note.Content.Text())
	// Output:
	// Groceries: milk, eggs
}

// Example_protectedNote shows that a note with its own password reads as a
// locked stub until that password is given.
func Example_protectedNote() {
	tmpDir, err := os.MkdirTemp("", "sealnote-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	engine, err := crypto.New(crypto.Params{Memory: 1024, Time: 1, Parallelism: 1})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	app, err := sealnote.Open(ctx, tmpDir, sealnote.WithCrypto(engine))
	if err != nil {
		log.Fatal(err)
	}
	defer app.Close()

	app.API.CreateVault(ctx, "correct horse")
	created, err := app.API.CreateNote(ctx, core.CreateNote{
		Title:       "Diary",
		Content:     core.Document(`{"type":"text","text":"dear diary"}`),
		HasPassword: true,
		Password:    "battery staple",
	})
	if err != nil {
		log.Fatal(err)
	}

	stub, _ := app.API.GetNote(ctx, created.Note.ID, "")
	fmt.Println(stub.Locked, stub.Message)

	note, _ := app.API.UnlockNote(ctx, created.Note.ID, "battery staple")
	fmt.Println(note.Locked, note.Content.Text())
	// Output:
	// true This note is password protected
	// false dear diary
}

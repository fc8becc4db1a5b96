package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/sealnote"
	"github.com/aretw0/sealnote/pkg/core"
	"github.com/aretw0/sealnote/pkg/crypto"
)

func main() {
	count := flag.Int("count", 200, "Number of notes to generate")
	protected := flag.Int("protected", 10, "How many of them carry their own password")
	memory := flag.Uint("memory", 64*1024, "Argon2id memory cost in KiB")
	passes := flag.Uint("time", 3, "Argon2id time cost")
	keep := flag.Bool("keep", false, "Keep the benchmark vault after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "sealnote_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	params := crypto.DefaultParams()
	params.Memory = uint32(*memory)
	params.Time = uint32(*passes)
	engine, err := crypto.New(params)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	app, err := sealnote.Open(ctx, benchDir, sealnote.WithLogger(logger), sealnote.WithCrypto(engine))
	if err != nil {
		panic(err)
	}
	defer app.Close()

	start := time.Now()
	if res := app.API.CreateVault(ctx, "benchmark"); !res.Success {
		panic(res.Error)
	}
	unlock := time.Since(start)

	fmt.Printf("Generating %d notes (%d protected) in %s...\n", *count, *protected, benchDir)
	ids := make([]string, 0, *count)
	start = time.Now()
	for i := 0; i < *count; i++ {
		req := core.CreateNote{
			Title:   fmt.Sprintf("Note %d", i),
			Content: core.TextDocument(fmt.Sprintf("Benchmark note %d\nThis is a test note.", i)),
		}
		if i < *protected {
			req.HasPassword = true
			req.Password = "note-password"
		}
		res, err := app.API.CreateNote(ctx, req)
		if err != nil {
			panic(err)
		}
		ids = append(ids, res.Note.ID)
	}
	create := time.Since(start)

	start = time.Now()
	list, err := app.API.ListNotes(ctx)
	if err != nil {
		panic(err)
	}
	listing := time.Since(start)

	start = time.Now()
	for _, id := range ids[min(*protected, len(ids)):] {
		if _, err := app.API.GetNote(ctx, id, ""); err != nil {
			panic(err)
		}
	}
	read := time.Since(start)

	start = time.Now()
	hits, err := app.API.SearchNotes(ctx, "test note")
	if err != nil {
		panic(err)
	}
	search := time.Since(start)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d notes, argon2id m=%d t=%d):\n", *count, params.Memory, params.Time)
	fmt.Printf("  Create vault + unlock: %v\n", unlock)
	fmt.Printf("  Create notes:          %v\n", create)
	fmt.Printf("  List (%d items):       %v\n", len(list), listing)
	fmt.Printf("  Read unprotected:      %v\n", read)
	fmt.Printf("  Search (%d hits):      %v\n", len(hits), search)
	fmt.Printf("--------------------------------------------------\n")
}

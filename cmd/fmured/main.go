package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/fmured/internal/cli"
	"github.com/vvka-141/fmured/pkg/fmured"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(fmured.ExitPanic)
		}
	}()

	if os.Getenv("FMURED_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(fmured.ExitCodeForError(err))
	}
}

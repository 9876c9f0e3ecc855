package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"medscribe/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// printError reports a command failure. Collaborator failures leave no
// partial artifacts behind, so those get a retry hint.
func printError(w io.Writer, err error) {
	fmt.Fprintln(w, err)
	if services.Retryable(err) {
		fmt.Fprintln(w, "No artifacts were written; the same command can be retried.")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"mediasort/internal/services"
)

const (
	exitFailure       = 1
	exitSourceMissing = 2
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		if errors.Is(err, services.ErrNotFound) {
			os.Exit(exitSourceMissing)
		}
		os.Exit(exitFailure)
	}
}

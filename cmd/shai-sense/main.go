package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/shai-sense/internal/infrastructure/cli"
	"github.com/doeshing/shai-sense/internal/infrastructure/cli/commands"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{Verbose: isVerbose(), Stdout: os.Stdout, Stderr: os.Stderr}

	root, err := cli.NewRootCmd(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr *commands.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("SHAI_DEBUG"), "1") || strings.EqualFold(os.Getenv("SHAI_DEBUG"), "true")
}

package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/pathextract/internal/config"
	"github.com/jacoelho/pathextract/internal/execute"
)

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, exitResult := config.Parse(args)
	if exitResult != nil {
		return exitResult.Print(stdout, stderr)
	}

	r, exitResult := execute.New(cfg)
	if exitResult != nil {
		return exitResult.Print(stdout, stderr)
	}
	r.SetInput(stdin)
	r.SetOutput(stdout)
	r.SetErrorOutput(stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return r.Run(ctx)
}

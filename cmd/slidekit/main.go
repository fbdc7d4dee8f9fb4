package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leca/cdn-slide-dataset/internal/cli"
)

// Set at build time with -ldflags "-X main.Version=... -X main.GitCommit=...".
var (
	Version   = "dev"
	GitCommit = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(fmt.Sprintf("%s (%s)", Version, GitCommit))
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	cmd "github.com/go-vc2/vc2/cmd/vc2ctl/cmd"
	"github.com/go-vc2/vc2/pkg/vc2/logging"
)

var GitSHA string = "NA"

func main() {
	ctx, cnc := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cnc()
	go func() {
		defer cnc()
		<-ctx.Done()
	}()

	slog.SetDefault(logging.Logger(os.Stderr, false, slog.LevelInfo))
	ctx = logging.AppendCtx(ctx, slog.String("app", "vc2ctl"), slog.String("git", GitSHA))

	if err := cmd.NewRoot(ctx, GitSHA).Execute(); err != nil {
		os.Exit(1)
	}
}

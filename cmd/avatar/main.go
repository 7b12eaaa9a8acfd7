package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kopachlager/xmasavatar/internal/adapters/primary/cli"
	"github.com/kopachlager/xmasavatar/internal/adapters/primary/tui"
	"github.com/kopachlager/xmasavatar/internal/app"
)

const (
	appName   = "xmas_avatar"
	envPrefix = "XMAS_AVATAR"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := app.NewClientConfig(envPrefix)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := app.NewClient(ctx, appName, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	defer client.Close()

	cmds := &cli.Commands{
		Avatar: client.Avatar,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		RunTUI: tui.Run,
	}
	return cmds.Execute(ctx, os.Args[1:])
}

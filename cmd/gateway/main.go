package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kopachlager/xmasavatar/internal/app"
)

const (
	appName   = "xmas_gateway"
	envPrefix = "XMAS_GATEWAY"
)

func main() {
	cfg, err := app.NewGatewayConfig(envPrefix)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	gateway := app.New(appName, cfg)

	if err := gateway.Run(ctx); err != nil {
		panic(err)
	}
}

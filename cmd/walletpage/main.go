package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/walletpage/internal/config"
	"github.com/mtlprog/walletpage/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	syncLogs := func() {}

	app := &cli.App{
		Name:  "walletpage",
		Usage: "wallet balances, token prices and swap quotes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: cfg.LogLevel, Usage: "debug, info, warn or error"},
			&cli.StringFlag{Name: "log-file", Value: cfg.LogFile, Usage: "also write rotated JSON logs to this file"},
		},
		Before: func(c *cli.Context) error {
			sync, err := logging.Setup(c.String("log-level"), c.String("log-file"))
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			syncLogs = sync
			return nil
		},
		After: func(*cli.Context) error {
			syncLogs()
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(&cfg),
			balancesCommand(&cfg),
			swapCommand(&cfg),
			sumCommand(),
			iconsCommand(&cfg),
			exportCommand(&cfg),
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

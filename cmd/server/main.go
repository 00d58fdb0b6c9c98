// Command server runs the account HTTP API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/server"
	"github.com/dmitrijs2005/accountkeeper/internal/server/config"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "accountkeeper:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}

	app.Run(ctx)
	return nil
}

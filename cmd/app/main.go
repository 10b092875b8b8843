package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		log.Printf("aerosense: %v", err)
		os.Exit(1)
	}
}

// run keeps deferred cleanups ahead of os.Exit.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := initializeApp()
	if err != nil {
		return fmt.Errorf("wire application: %w", err)
	}
	defer cleanup()

	return app.Run(ctx)
}

// Command rasgbd drives a fixed-resolution pixel display at constant
// frame rate from time-stamped frames submitted over HTTP.
//
// Grounded on experimental/cmd/periph-web/main.go's mainImpl/main split
// and its flag.Parse + NArg() validation style, extended with signal
// handling for a graceful shutdown sequence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/rasgbd/rasgbd/internal/config"
	"github.com/rasgbd/rasgbd/internal/rasgbd"
)

const shutdownTimeout = 5 * time.Second

func mainImpl() error {
	configPath := flag.String("config", "", "path to config.toml (overrides RASGB_PI_CONFIG and the default ~/.datadance/config.toml)")
	verbose := flag.Bool("v", false, "verbose log")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unsupported arguments")
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rc, err := rasgbd.Startup(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("starting up: %w", err)
	}

	log.Printf("rasgbd: listening on %s", rc.WebServer.Addr())

	done := make(chan struct{})
	go func() {
		rc.Run()
		close(done)
	}()

	<-ctx.Done()
	log.Print("rasgbd: shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rc.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	<-done
	return nil
}

func loadConfig(explicitPath string) (config.Config, error) {
	if explicitPath != "" {
		return config.LoadFile(explicitPath)
	}
	return config.Load()
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "rasgbd: %s.\n", err)
		os.Exit(1)
	}
}

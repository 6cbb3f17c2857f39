// Command lojgloss-server exposes the lojgloss translator as a JSON REST API.
//
// Endpoints:
//
//	POST /api/translate        body: {"text":"...","direction":"forward","content_type":"html"}
//	POST /api/translate/batch  body: {"texts":["..."],"direction":"reverse"}
//	GET  /api/lookup?gloss=<english> | ?word=<lojban>
//	GET  /api/digits?value=<number>
//	GET  /healthz
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/lojgloss"
	"github.com/ZaguanLabs/lojgloss/internal/app"
	"github.com/ZaguanLabs/lojgloss/internal/config"
	"github.com/ZaguanLabs/lojgloss/processor"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("lojgloss-server", flag.ContinueOnError)
	addr := fs.String("addr", "", "Listen address (default: from config)")
	dict := fs.String("dict", "", "Gloss dictionary JSON file (default: from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dict != "" {
		cfg.Dictionary.Path = *dict
	}

	logger := app.NewLogger(cfg.Log, os.Stderr)
	a, err := app.Build(cfg, logger,
		lojgloss.WithProcessor(processor.NewHTMLProcessor()),
		lojgloss.WithProcessor(processor.NewTextProcessor()),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error("shutdown cleanup failed", "error", err)
		}
	}()

	s := &server{translator: a.Translator, maxBatch: cfg.Server.MaxBatch, logger: logger}
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      newHandler(s, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "version", lojgloss.FullVersion())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

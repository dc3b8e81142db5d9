package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qastore/app/loader"
	"qastore/app/repositories"
	"qastore/app/routes"
	"qastore/app/screens"
	"qastore/app/services"
	"qastore/config"
	"qastore/service"
)

var connectStore = repositories.Connect

func connect(ctx context.Context, cfg config.Config, port int, indexes bool) (repositories.Store, error) {
	store, err := connectStore(ctx, cfg.Store, port)
	if err != nil {
		return nil, err
	}
	if indexes {
		if err := store.EnsureIndexes(ctx); err != nil {
			if closeErr := store.Close(ctx); closeErr != nil {
				log.Printf("Failed to close store: %v", closeErr)
			}
			return nil, err
		}
	}
	return store, nil
}

// runInteractive runs the menu session. The standard logger goes to the
// configured log file so it does not draw over the screens.
func runInteractive(ctx context.Context, cfg config.Config, port int, in io.Reader, out io.Writer) error {
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	defer log.SetOutput(os.Stderr)

	store, err := connect(ctx, cfg, port, true)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	log.Printf("Starting interactive session (backend %s, port %d)", cfg.Store.Backend, port)
	qa := services.NewQAService(store, cfg.ContentLicense)
	return screens.NewNavigator(qa, in, out, cfg.PageSize).Run(ctx)
}

func runLoad(ctx context.Context, cfg config.Config, port int, out io.Writer) error {
	store, err := connect(ctx, cfg, port, false)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	start := time.Now()
	counts, err := loader.Load(ctx, store, cfg.Files)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %d posts, %d tags and %d votes in %s\n",
		counts.Posts, counts.Tags, counts.Votes, time.Since(start).Round(time.Millisecond))
	return nil
}

func runServe(ctx context.Context, cfg config.Config, port int) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := connect(ctx, cfg, port, true)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	server := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           routes.SetupRoutes(services.NewQAService(store, cfg.ContentLicense)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting API on %s", cfg.API.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Println("Shutting down API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func runBackup(cfg config.Config, backupDir string, out io.Writer) error {
	_, err := service.Backup(cfg.Store.EmbeddedPath, backupDir, out)
	return err
}

func runRestore(cfg config.Config, file string, in io.Reader, out io.Writer) error {
	return service.Restore(cfg.Store.EmbeddedPath, file, in, out)
}

func runClean(cfg config.Config, in io.Reader, out io.Writer) error {
	err := service.Clean(cfg.Store.EmbeddedPath, in, out)
	if errors.Is(err, service.ErrCancelled) {
		return nil
	}
	return err
}

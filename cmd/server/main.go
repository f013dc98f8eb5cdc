package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"discord-share/internal/app"
	"discord-share/internal/config"
	"discord-share/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	l := logger.New()

	cfg, err := config.Load("discord-share.yaml")
	if err != nil {
		l.Errorf("load config: %v", err)
		os.Exit(1)
	}
	l = logger.NewWithWriter(os.Stderr, logger.ParseLevel(cfg.LogLevel))

	a, err := app.Build(cfg, l, app.Options{})
	if err != nil {
		l.Errorf("startup: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      newRouter(a.Service, l, cfg.FetchTimeout()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	if err := serve(srv, l, stop); err != nil {
		l.Errorf("server error: %v", err)
		a.Close()
		os.Exit(1)
	}
	l.Infof("bye")
}

// serve runs srv until it fails to listen or a signal arrives on stop, in
// which case it shuts down gracefully.
func serve(srv *http.Server, l *logger.Logger, stop <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		l.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

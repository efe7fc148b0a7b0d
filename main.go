package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clementus360/wellness-sessions/config"
	"clementus360/wellness-sessions/handlers"
	"clementus360/wellness-sessions/routes"
	"clementus360/wellness-sessions/sessions"
	"clementus360/wellness-sessions/sqlite"
	"clementus360/wellness-sessions/supabase"
)

func openStore(cfg *config.Config) (sessions.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSupabase:
		client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
		if err != nil {
			return nil, nil, err
		}
		return supabase.NewSessionStore(client), func() error { return nil }, nil
	default:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		config.Logger.WithField("path", cfg.SQLitePath).Info("Using SQLite session store")
		return store, store.Close, nil
	}
}

func main() {

	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		config.Logger.Fatal("Invalid configuration: ", err)
	}
	config.InitLogger(cfg.LogLevel)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		config.Logger.Fatal("Failed to open session store: ", err)
	}
	defer closeStore()

	h := handlers.New(sessions.NewService(store), cfg.IsProduction())
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           routes.NewRouter(cfg, h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		config.Logger.Infof("Server is running on port %s (%s)", cfg.Port, cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			config.Logger.Fatal("Server failed: ", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		config.Logger.Error("Graceful shutdown failed: ", err)
	}
	config.Logger.Info("Server stopped")
}

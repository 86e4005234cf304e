package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erdcanvas/erdcanvas/backend-go/internal/auth"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/config"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/db"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/diagram"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/export"
	"github.com/erdcanvas/erdcanvas/backend-go/internal/raster"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	queries := db.New(pool)

	fonts, err := raster.LoadFontSet(cfg.ExportFont)
	if err != nil {
		slog.Error("load export font", "path", cfg.ExportFont, "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(queries, cfg.JWTSecret)
	diagramService := diagram.NewService(queries)
	renderer := export.NewRenderer(fonts, cfg.ExportScale, cfg.ExportMargin, slog.Default())

	r := newRouter(routerDeps{
		origins:  cfg.Origins(),
		webDir:   cfg.WebDir,
		auth:     authService,
		diagrams: diagramService,
		exporter: export.NewHandler(renderer, diagramService),
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("server starting", "addr", addr, "web_dir", cfg.WebDir)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Magnamura/card-weaving-generator/internal/adapters/drafts"
	httpadapter "github.com/Magnamura/card-weaving-generator/internal/adapters/http"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/kv"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/render"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/script"
	"github.com/Magnamura/card-weaving-generator/internal/adapters/ws"
	"github.com/Magnamura/card-weaving-generator/internal/app"
	"github.com/Magnamura/card-weaving-generator/internal/config"
	"github.com/Magnamura/card-weaving-generator/internal/logs"
	"github.com/Magnamura/card-weaving-generator/internal/palette"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logs.New(os.Stderr, logs.Options{}).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logs.New(os.Stdout, logs.Options{Level: cfg.LogLevel})
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pal := palette.New(ctx, kv.NewFileStore(cfg.PaletteFile), logger)

	svc := app.NewWeavingService(
		drafts.NewEmbeddedStore(),
		pal,
		render.New(cfg.RenderCell, logger),
		script.NewStarlark(cfg.ScriptMaxSteps),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(httpadapter.RequestIDMiddleware())
	e.Use(httpadapter.LoggingMiddleware(logger))

	httpadapter.NewHandler(svc).Register(e)
	ws.NewLive(svc, logger, nil).Register(e)

	go func() {
		logger.Info("starting server", "addr", cfg.HTTPAddr, "palette_file", cfg.PaletteFile)
		if err := e.Start(cfg.HTTPAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

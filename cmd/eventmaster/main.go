// Package main Eventmaster API
//
// @title           Eventmaster API
// @version         1.0
// @description     API мероприятий: регистрация, сессии, участие в мероприятиях и уведомления

// @contact.name   API Support

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:3000
// @BasePath  /api

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name eventmaster.sid
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/eventmaster/docs"
	"github.com/magabrotheeeer/eventmaster/internal/app/eventmaster"
	"github.com/magabrotheeeer/eventmaster/internal/config"
	"github.com/magabrotheeeer/eventmaster/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.SetupLogger(cfg.Env)

	logger.Info("starting eventmaster", slog.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := eventmaster.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("eventmaster stopped gracefully")
}

// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import (
	"log/slog"
	"os"
)

const (
	envDev  = "dev"
	envProd = "prod"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
// Для nil возвращает пустую строку, чтобы логирование не паниковало.
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// SetupLogger создаёт логгер в зависимости от окружения:
// текстовый с уровнем debug локально, JSON для dev и prod.
func SetupLogger(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}

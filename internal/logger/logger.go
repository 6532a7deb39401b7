package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// L es el logger global de la aplicación
var L = slog.Default()

// Init configura el logger global en formato JSON con el nivel indicado.
// Se llama una sola vez al arrancar, después de cargar la configuración.
func Init(levelStr string) {
	InitWithWriter(levelStr, os.Stdout)
}

// InitWithWriter es igual que Init pero escribe en w (útil en tests)
func InitWithWriter(levelStr string, w io.Writer) {
	level := ParseLevel(levelStr)

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	L = slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(L)
	L.Debug("Logger inicializado", "level", level.String())
}

// ParseLevel traduce el nivel textual; cualquier valor desconocido es INFO
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

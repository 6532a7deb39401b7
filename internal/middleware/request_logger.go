package middleware

import (
	"log/slog"
	"time"

	"github.com/AgusMolinaCode/crypto-ledger/internal/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger registra cada petición con slog en lugar del logger de gin
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		logger.L.Log(c.Request.Context(), level, "Petición HTTP", attrs...)
	}
}

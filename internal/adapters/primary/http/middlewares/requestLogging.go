package middlewares

import (
	"context"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
)

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		log.Debug("incoming request",
			"method", req.Method,
			"path", req.URL.Path,
			"content_length", req.ContentLength,
			"remote_addr", req.RemoteAddr,
		)

		c.Next()

		// Уровень логирования зависит от статуса ответа
		status := c.Writer.Status()
		var logLevel slog.Level
		switch {
		case status >= 500:
			logLevel = slog.LevelError
		case status >= 400:
			logLevel = slog.LevelWarn
		default:
			logLevel = slog.LevelInfo
		}

		// Тело запроса не логируем: там base64 картинки
		log.LogAttrs(context.Background(), logLevel, "request completed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("response_size", c.Writer.Size()),
			slog.String("user_agent", req.UserAgent()),
			slog.String("remote_addr", req.RemoteAddr),
		)
	}
}

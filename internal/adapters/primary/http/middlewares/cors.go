package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS разрешает любой origin. Заголовки ставятся до обработчика, поэтому есть и в ответах с ошибкой
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Access-Control-Expose-Headers", "X-Avatar-Archive-Key")
		c.Next()
	}
}

// BodyLimit ограничивает размер тела запроса
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

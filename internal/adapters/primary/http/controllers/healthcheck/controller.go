package healthcheckController

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 3 * time.Second

// Check проверка одной зависимости (архив, брокер и т.п.)
type Check func(ctx context.Context) error

type HealthCheckController struct {
	checks map[string]Check
	log    *slog.Logger
}

func New(log *slog.Logger) *HealthCheckController {
	return &HealthCheckController{
		checks: make(map[string]Check),
		log:    log,
	}
}

// AddCheck регистрирует проверку для /ready. Вызывать до старта сервера
func (c *HealthCheckController) AddCheck(name string, check Check) *HealthCheckController {
	c.checks[name] = check
	return c
}

func (c *HealthCheckController) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", c.health)
	r.GET("/ready", c.ready)
}

// health базовая проверка (всегда возвращает 200)
func (c *HealthCheckController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "xmas-avatar-gateway",
	})
}

// ready прогоняет все зарегистрированные проверки
func (c *HealthCheckController) ready(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), checkTimeout)
	defer cancel()

	failed := gin.H{}
	for name, check := range c.checks {
		if err := check(checkCtx); err != nil {
			c.log.Error("dependency not ready", "dependency", name, "error", err)
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"failed": failed,
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

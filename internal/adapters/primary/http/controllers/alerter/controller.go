package alerter

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopachlager/xmasavatar/internal/ports/service"
)

// TokenHeader заголовок с общим секретом вебхука
const TokenHeader = "X-Webhook-Token"

type Controller struct {
	AlerterService service.IAlerterService
	Token          string
	Log            *slog.Logger
}

func New(alerterService service.IAlerterService, token string, log *slog.Logger) *Controller {
	return &Controller{
		AlerterService: alerterService,
		Token:          token,
		Log:            log,
	}
}

// RegisterRoutes без токена вебхук не регистрируется
func (c *Controller) RegisterRoutes(router *gin.Engine) {
	if c.Token == "" {
		return
	}
	router.POST("/webhooks/alert", c.handleGenericAlert)
}

// handleGenericAlert пересылает алерт оператору
func (c *Controller) handleGenericAlert(ctx *gin.Context) {
	if subtle.ConstantTimeCompare([]byte(ctx.GetHeader(TokenHeader)), []byte(c.Token)) != 1 {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var payload GenericAlertPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		c.Log.Warn("failed to bind generic alert request",
			"error", err,
		)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if payload.Message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	message := payload.Message
	if payload.Source != "" {
		message = fmt.Sprintf("🔔 %s\n\n%s", payload.Source, payload.Message)
	}

	if err := c.AlerterService.SendAlert(ctx.Request.Context(), message); err != nil {
		c.Log.Warn("failed to send alert",
			"error", err,
			"source", payload.Source,
		)
		// 200, чтобы отправитель не повторял запрос
		ctx.JSON(http.StatusOK, gin.H{"ok": false, "error": "failed to send alert"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

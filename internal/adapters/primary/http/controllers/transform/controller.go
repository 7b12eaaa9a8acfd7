package transformController

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

const (
	// ArchiveKeyHeader ключ архивной копии результата, если архив включён
	ArchiveKeyHeader = "X-Avatar-Archive-Key"

	msgMethodNotAllowed    = "Method Not Allowed"
	msgMissingImage        = "Missing image in request body"
	msgInvalidImage        = "Image payload is not valid base64"
	msgTooLarge            = "Image is too large"
	msgMissingCredential   = "Server configuration error: API key is not configured"
	msgNoImageReturned     = "The artisan failed to return an image artifact. Try a different photo."
	msgAlchemyFailedPrefix = "Alchemy failed: "
)

// Paths маршруты шлюза. Второй повторяет путь serverless функции старого фронтенда
var Paths = []string{"/transform", "/.netlify/functions/transform"}

type Transformer interface {
	Transform(ctx context.Context, req domain.TransformRequest) (*domain.TransformResult, error)
}

type Controller struct {
	Transformer Transformer
	Log         *slog.Logger
}

func New(transformer Transformer, log *slog.Logger) *Controller {
	return &Controller{
		Transformer: transformer,
		Log:         log,
	}
}

// RegisterRoutes вешает шлюз на Paths. Any покрывает только стандартные методы,
// остальные (PROPFIND и т.п.) ловит NoMethod
func (c *Controller) RegisterRoutes(router *gin.Engine) {
	for _, p := range Paths {
		router.Any(p, c.handle)
	}

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
	})
}

type transformResponse struct {
	Image string `json:"image"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Controller) handle(ctx *gin.Context) {
	switch ctx.Request.Method {
	case http.MethodOptions:
		ctx.Status(http.StatusOK)
		return
	case http.MethodPost:
	default:
		ctx.JSON(http.StatusMethodNotAllowed, errorResponse{Error: msgMethodNotAllowed})
		return
	}

	var req domain.TransformRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			ctx.JSON(http.StatusRequestEntityTooLarge, errorResponse{Error: msgTooLarge})
			return
		}
		c.Log.Debug("failed to bind transform request", "error", err)
		ctx.JSON(http.StatusBadRequest, errorResponse{Error: msgMissingImage})
		return
	}

	result, err := c.Transformer.Transform(ctx.Request.Context(), req)
	if err != nil {
		status, message := mapError(err)
		ctx.JSON(status, errorResponse{Error: message})
		return
	}

	if result.ArchiveKey != "" {
		ctx.Header(ArchiveKeyHeader, result.ArchiveKey)
	}
	ctx.JSON(http.StatusOK, transformResponse{Image: result.Image.DataURI()})
}

// mapError переводит ошибку сервиса в HTTP статус и текст для пользователя
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrMissingImage):
		return http.StatusBadRequest, msgMissingImage
	case errors.Is(err, domain.ErrInvalidImage):
		return http.StatusBadRequest, msgInvalidImage
	case errors.Is(err, domain.ErrMissingCredential):
		return http.StatusInternalServerError, msgMissingCredential
	case errors.Is(err, domain.ErrNoImageReturned):
		return http.StatusInternalServerError, msgNoImageReturned
	default:
		return http.StatusInternalServerError, msgAlchemyFailedPrefix + err.Error()
	}
}

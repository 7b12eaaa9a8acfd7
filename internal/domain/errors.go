package domain

import "errors"

// BusinessError ошибка бизнес-логики, которая уже записана в сессию и залогирована в UseCase
type BusinessError struct {
	Err error
}

func (e *BusinessError) Error() string {
	return e.Err.Error()
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func WrapBusinessError(err error) error {
	if err == nil {
		return nil
	}
	return &BusinessError{Err: err}
}

func IsBusinessError(err error) bool {
	var businessErr *BusinessError
	return errors.As(err, &businessErr)
}

// Ошибки пользовательского ввода (обрабатываются локально, без сети)
var (
	ErrBusy           = errors.New("another request is already in progress")
	ErrNoHandle       = errors.New("handle is required")
	ErrNoSourceImage  = errors.New("source image is required")
	ErrQuotaExhausted = errors.New("generation quota exhausted")
	ErrUnknownTheme   = errors.New("unknown theme")
	ErrFetchFailed    = errors.New("profile fetch failed")
)

// Ошибки шлюза
var (
	ErrMissingImage      = errors.New("missing image in request body")
	ErrInvalidImage      = errors.New("image payload is not valid base64")
	ErrMissingCredential = errors.New("model credential is not configured")
	ErrNoImageReturned   = errors.New("model returned no image part")
)

// GatewayError ответ шлюза с кодом не 2xx. Message показывается пользователю как есть
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return e.Message
}

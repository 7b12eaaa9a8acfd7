package transform

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

const instructionTemplate = "Please edit this profile photo into a festive Christmas version. " +
	"Follow these specific instructions: %s. " +
	"Maintain the recognizable features of the person's face but integrate the festive elements naturally. " +
	"The output should be a square avatar-style image."

// BuildInstruction подставляет описание стиля в шаблон инструкции
func BuildInstruction(prompt string) string {
	return fmt.Sprintf(instructionTemplate, strings.TrimSpace(prompt))
}

// Transform редактирует картинку моделью. Ошибки:
// ErrMissingImage/ErrInvalidImage - плохой ввод, ErrMissingCredential - нет ключа,
// ErrNoImageReturned - модель ответила без картинки, остальное - сбой модели
func (s *Service) Transform(ctx context.Context, req domain.TransformRequest) (*domain.TransformResult, error) {
	requestID := uuid.New()
	start := s.now()

	event := domain.TransformEvent{
		RequestID:    requestID,
		PromptLength: len(req.Prompt),
		CreatedAt:    start.UTC(),
	}

	result, err := s.transform(ctx, requestID, req, &event)

	event.DurationMs = s.now().Sub(start).Milliseconds()
	if err != nil {
		event.Outcome = domain.TransformFailed
		event.Error = err.Error()
	} else {
		event.Outcome = domain.TransformCompleted
	}
	s.publish(ctx, event)

	return result, err
}

func (s *Service) transform(ctx context.Context, requestID uuid.UUID, req domain.TransformRequest, event *domain.TransformEvent) (*domain.TransformResult, error) {
	source, err := domain.ParseDataURI(req.Image)
	if err != nil {
		s.Log.Debug("rejected transform request",
			"error", err,
			"request_id", requestID)
		return nil, err
	}
	event.InputBytes = len(source.Data)

	apiKey, ok := s.lookupEnv(s.credentialEnv)
	if !ok || strings.TrimSpace(apiKey) == "" {
		s.Log.Error("model credential is not configured",
			"env", s.credentialEnv,
			"request_id", requestID)
		if alertErr := s.Alerter.SendAlert(ctx, fmt.Sprintf("xmas-avatar gateway: %s is not set, transforms are failing", s.credentialEnv)); alertErr != nil {
			s.Log.Warn("failed to alert about missing credential", "error", alertErr)
		}
		return nil, domain.ErrMissingCredential
	}

	// Модель всегда получает PNG, независимо от исходного типа
	parts, err := s.Model.EditImage(ctx, apiKey, source.Data, domain.MIMETypePNG, BuildInstruction(req.Prompt))
	if err != nil {
		s.Log.Error("model call failed",
			"error", err,
			"request_id", requestID)
		return nil, err
	}

	var produced *domain.Image
	for _, part := range parts {
		if part.HasImage() {
			produced = &domain.Image{Data: part.Data, MIMEType: domain.MIMETypePNG}
			break
		}
	}
	if produced == nil {
		s.Log.Warn("model returned no image part",
			"parts", len(parts),
			"request_id", requestID)
		return nil, domain.ErrNoImageReturned
	}
	event.OutputBytes = len(produced.Data)

	result := &domain.TransformResult{Image: produced}
	result.ArchiveKey = s.archive(ctx, requestID, produced)
	event.ArchiveKey = result.ArchiveKey

	s.Log.Info("transform completed",
		"request_id", requestID,
		"input_bytes", event.InputBytes,
		"output_bytes", event.OutputBytes,
		"archive_key", result.ArchiveKey)

	return result, nil
}

// archive сохраняет результат в S3. Сбой не ломает запрос, ключ тогда пустой
func (s *Service) archive(ctx context.Context, requestID uuid.UUID, image *domain.Image) string {
	if s.Archive == nil {
		return ""
	}

	key := ArchiveKey(s.now(), requestID)
	if err := s.Archive.PutFile(ctx, key, image.Data, image.MIMEType); err != nil {
		s.Log.Warn("failed to archive avatar",
			"error", err,
			"key", key,
			"request_id", requestID)
		return ""
	}
	return key
}

func (s *Service) publish(ctx context.Context, event domain.TransformEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.SendTransformEvent(ctx, event); err != nil {
		s.Log.Warn("failed to publish transform event",
			"error", err,
			"request_id", event.RequestID,
			"outcome", event.Outcome)
	}
}

// ArchiveKey путь объекта в архиве: avatars/YYYY/MM/DD/<uuid>.png
func ArchiveKey(at time.Time, requestID uuid.UUID) string {
	return path.Join("avatars", at.UTC().Format("2006/01/02"), requestID.String()+".png")
}

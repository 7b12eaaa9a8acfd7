package avatar

import (
	"context"
	"errors"
	"fmt"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// Generate запускает генерацию. themeOverride, если задан, фиксирует тему для этого запроса
// и становится выбранной. Квота перепроверяется здесь, а не берётся из отображённой.
// Ошибки, уже записанные в сессию, возвращаются как *domain.BusinessError
func (s *Service) Generate(ctx context.Context, themeOverride domain.ThemeID) error {
	s.mu.Lock()
	if s.session.IsLoading {
		s.mu.Unlock()
		return domain.ErrBusy
	}

	themeID := s.session.SelectedTheme
	if themeOverride != "" {
		themeID = themeOverride
	}
	theme, ok := s.Catalog.Get(themeID)
	if !ok {
		s.session.Error = MsgUnknownTheme
		s.mu.Unlock()
		return domain.WrapBusinessError(fmt.Errorf("%w: %s", domain.ErrUnknownTheme, themeID))
	}
	s.session.SelectedTheme = themeID

	if s.session.SourceImage.IsEmpty() {
		s.session.Error = MsgNoSourceImage
		s.mu.Unlock()
		return domain.WrapBusinessError(domain.ErrNoSourceImage)
	}

	key := s.session.Identity()
	source := s.session.SourceImage
	// IsLoading держит сессию занятой, пока журнал читается без мьютекса
	s.session.IsLoading = true
	s.session.Error = ""
	s.mu.Unlock()

	if s.Ledger.Remaining(ctx, key) <= 0 {
		s.mu.Lock()
		s.session.IsLoading = false
		s.session.Error = fmt.Sprintf(MsgQuotaExhausted, key)
		s.session.Status = domain.StatusIdle
		s.mu.Unlock()
		s.Log.Info("generation blocked by quota", "identity", key)
		return domain.WrapBusinessError(domain.ErrQuotaExhausted)
	}

	s.mu.Lock()
	s.session.Status = domain.StatusGenerating
	s.mu.Unlock()

	s.Log.Info("generation started",
		"identity", key,
		"theme", themeID)

	produced, err := s.transform(ctx, source, theme.Description)

	s.mu.Lock()
	s.session.IsLoading = false
	if err != nil {
		s.session.Status = domain.StatusIdle
		s.session.Error = failureMessage(err)
		s.mu.Unlock()

		s.Log.Warn("generation failed",
			"error", err,
			"identity", key,
			"theme", themeID)
		return domain.WrapBusinessError(err)
	}

	s.session.ProducedImage = produced
	s.session.Status = domain.StatusCompleted
	s.mu.Unlock()

	// Ошибка записи не отменяет результат
	if err := s.Ledger.Record(ctx, key); err != nil {
		s.Log.Warn("generation succeeded but was not recorded",
			"error", err,
			"identity", key)
	}
	s.Celebrator.Celebrate(ctx)

	s.Log.Info("generation completed",
		"identity", key,
		"theme", themeID,
		"bytes", len(produced.Data))
	return nil
}

// transform вызывает шлюз, пока крутится ротатор. Ротатор гарантированно остановлен к возврату
func (s *Service) transform(ctx context.Context, source *domain.Image, prompt string) (*domain.Image, error) {
	rotatorCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Rotator.Run(rotatorCtx)
	}()
	defer func() {
		stop()
		<-done
	}()

	produced, err := s.Transformer.Transform(ctx, source, prompt)
	if err == nil && produced.IsEmpty() {
		err = domain.ErrNoImageReturned
	}
	return produced, err
}

// failureMessage текст шлюза, если он есть, иначе общий
func failureMessage(err error) string {
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return MsgGatewayBusy
}

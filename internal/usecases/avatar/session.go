package avatar

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

// Snapshot копия сессии для отрисовки
func (s *Service) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// SetHandle меняет handle. Ключ квоты вычисляется в момент запроса
func (s *Service) SetHandle(handle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Handle = handle
}

// SelectTheme выбирает тему из каталога, других эффектов нет
func (s *Service) SelectTheme(id domain.ThemeID) error {
	if _, ok := s.Catalog.Get(id); !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTheme, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.SelectedTheme = id
	return nil
}

// Remaining остаток квоты для текущего handle
func (s *Service) Remaining(ctx context.Context) int {
	return s.Ledger.Remaining(ctx, s.Snapshot().Identity())
}

// Usage снимок квоты для текущего handle
func (s *Service) Usage(ctx context.Context) domain.UsageSnapshot {
	return s.Ledger.Usage(ctx, s.Snapshot().Identity())
}

// Themes каталог тем
func (s *Service) Themes() []domain.Theme {
	return s.Catalog.All()
}

// FetchProfile подтягивает аватар по handle. При ошибке исходник не меняется
func (s *Service) FetchProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.session.IsLoading {
		s.mu.Unlock()
		return domain.ErrBusy
	}

	key := s.session.Identity()
	if key.IsAnonymous() {
		s.session.Error = MsgNoHandle
		s.mu.Unlock()
		return domain.WrapBusinessError(domain.ErrNoHandle)
	}

	s.session.IsLoading = true
	s.session.Status = domain.StatusFetching
	s.session.Error = ""
	s.mu.Unlock()

	img, err := s.Resolver.FetchAvatar(ctx, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.IsLoading = false
	s.session.Status = domain.StatusIdle
	if err != nil {
		s.Log.Warn("profile fetch failed",
			"error", err,
			"identity", key)
		s.session.Error = MsgFetchFailed
		return domain.WrapBusinessError(fmt.Errorf("%w: %v", domain.ErrFetchFailed, err))
	}

	s.session.SourceImage = img
	s.Log.Debug("profile fetched",
		"identity", key,
		"bytes", len(img.Data))
	return nil
}

// Upload заменяет исходник и сбрасывает ошибку и прошлый результат
func (s *Service) Upload(img *domain.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.IsLoading {
		return domain.ErrBusy
	}
	if img.IsEmpty() {
		s.session.Error = MsgNoSourceImage
		return domain.WrapBusinessError(domain.ErrNoSourceImage)
	}

	s.session.SourceImage = img
	s.session.ProducedImage = nil
	s.session.Error = ""
	s.session.Status = domain.StatusIdle
	return nil
}

// UploadFile читает локальный файл и загружает его как исходник
func (s *Service) UploadFile(path string) error {
	if s.Snapshot().IsLoading {
		return domain.ErrBusy
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	mimeType := http.DetectContentType(data)
	if len(data) == 0 || !strings.HasPrefix(mimeType, "image/") {
		s.mu.Lock()
		s.session.Error = MsgNotAnImage
		s.mu.Unlock()
		return domain.WrapBusinessError(fmt.Errorf("%w: %s is %s", domain.ErrNoSourceImage, path, mimeType))
	}

	return s.Upload(&domain.Image{Data: data, MIMEType: mimeType})
}

// ResetResult убирает результат и ошибку, исходник и handle остаются
func (s *Service) ResetResult() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.IsLoading {
		return domain.ErrBusy
	}

	s.session.ProducedImage = nil
	s.session.Error = ""
	s.session.Status = domain.StatusIdle
	return nil
}

// ClearAll начинает сессию с нуля, включая handle. Выбранная тема сохраняется
func (s *Service) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.IsLoading {
		return domain.ErrBusy
	}

	theme := s.session.SelectedTheme
	s.session = domain.NewSession()
	s.session.SelectedTheme = theme
	return nil
}

// ResultFileName имя файла для скачивания результата
func ResultFileName(handle string) string {
	key := domain.NormalizeHandle(handle)
	if key.IsAnonymous() {
		return "xmas-avatar-festive.png"
	}
	return "xmas-avatar-" + key.String() + ".png"
}

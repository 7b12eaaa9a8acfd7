package domain

// SessionStatus статус сессии генерации
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusFetching   SessionStatus = "fetching"
	StatusGenerating SessionStatus = "generating"
	StatusCompleted  SessionStatus = "completed"
)

// Session состояние одной сессии генерации. Ошибка накладывается поверх idle
type Session struct {
	IsLoading     bool          `json:"is_loading"`
	Error         string        `json:"error,omitempty"`
	Handle        string        `json:"handle"`
	SelectedTheme ThemeID       `json:"selected_theme"`
	SourceImage   *Image        `json:"source_image,omitempty"`
	ProducedImage *Image        `json:"produced_image,omitempty"`
	Status        SessionStatus `json:"status"`
}

// NewSession создаёт пустую сессию
func NewSession() Session {
	return Session{
		SelectedTheme: DefaultThemeID,
		Status:        StatusIdle,
	}
}

// Identity ключ квоты для текущего handle
func (s Session) Identity() IdentityKey {
	return NormalizeHandle(s.Handle)
}

// HasError проверяет, есть ли в сессии ошибка
func (s Session) HasError() bool {
	return s.Error != ""
}

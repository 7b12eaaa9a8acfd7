package domain

// ThemeID идентификатор темы оформления
type ThemeID string

// DefaultThemeID тема, выбранная по умолчанию
const DefaultThemeID ThemeID = "classic"

// Theme элемент каталога тем. Каталог неизменяем после загрузки
type Theme struct {
	ID          ThemeID `json:"id" yaml:"id"`
	Label       string  `json:"label" yaml:"label"`
	Description string  `json:"description" yaml:"description"` // стиль на естественном языке, уходит в промпт
}

func (t ThemeID) String() string {
	return string(t)
}

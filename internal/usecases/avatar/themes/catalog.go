package themes

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kopachlager/xmasavatar/internal/domain"
)

//go:embed themes.yaml
var embedded []byte

type document struct {
	Themes          []domain.Theme `yaml:"themes"`
	LoadingMessages []string       `yaml:"loading_messages"`
}

// Catalog неизменяемый каталог тем и сообщений ожидания
type Catalog struct {
	themes   []domain.Theme
	byID     map[domain.ThemeID]domain.Theme
	messages []string
}

// Default каталог, встроенный в бинарник
func Default() (*Catalog, error) {
	return Parse(embedded)
}

// MustDefault как Default, но паникует. Встроенный YAML проверяется тестами
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse разбирает YAML каталога. Требует уникальные id и наличие темы по умолчанию
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse theme catalog: %w", err)
	}

	if len(doc.Themes) == 0 {
		return nil, fmt.Errorf("theme catalog is empty")
	}

	byID := make(map[domain.ThemeID]domain.Theme, len(doc.Themes))
	for i, t := range doc.Themes {
		if t.ID == "" || t.Label == "" {
			return nil, fmt.Errorf("theme #%d has empty id or label", i)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", t.ID)
		}
		byID[t.ID] = t
	}

	if _, ok := byID[domain.DefaultThemeID]; !ok {
		return nil, fmt.Errorf("default theme %q is missing", domain.DefaultThemeID)
	}

	return &Catalog{
		themes:   doc.Themes,
		byID:     byID,
		messages: doc.LoadingMessages,
	}, nil
}

// All возвращает темы в порядке каталога
func (c *Catalog) All() []domain.Theme {
	return append([]domain.Theme(nil), c.themes...)
}

// Get ищет тему по id
func (c *Catalog) Get(id domain.ThemeID) (domain.Theme, bool) {
	t, ok := c.byID[id]
	return t, ok
}

// LoadingMessages сообщения для ротации во время генерации
func (c *Catalog) LoadingMessages() []string {
	return append([]string(nil), c.messages...)
}

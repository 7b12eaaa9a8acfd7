package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

const MIMETypePNG = "image/png"

var dataURIPrefix = regexp.MustCompile(`^data:(image/[\w.+-]+);base64,`)

// Image байты картинки вместе с MIME типом
type Image struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// DataURI возвращает картинку в виде data:<mime>;base64,<data>
func (i *Image) DataURI() string {
	mime := i.MIMEType
	if mime == "" {
		mime = MIMETypePNG
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}

// IsEmpty проверяет, есть ли в картинке данные
func (i *Image) IsEmpty() bool {
	return i == nil || len(i.Data) == 0
}

// StripDataURIPrefix убирает заголовок data URI, если он есть
func StripDataURIPrefix(payload string) string {
	return dataURIPrefix.ReplaceAllString(strings.TrimSpace(payload), "")
}

// ParseDataURI разбирает data URI или голый base64. Без заголовка MIME считается PNG
func ParseDataURI(payload string) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrMissingImage
	}

	mime := MIMETypePNG
	if m := dataURIPrefix.FindStringSubmatch(payload); m != nil {
		mime = m[1]
	}

	data, err := base64.StdEncoding.DecodeString(StripDataURIPrefix(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return nil, ErrMissingImage
	}

	return &Image{Data: data, MIMEType: mime}, nil
}

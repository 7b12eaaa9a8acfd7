package domain

import "strings"

// IdentityKey ключ группировки квоты. Не аутентифицирован
type IdentityKey string

// AnonymousIdentity используется, когда handle не указан
const AnonymousIdentity IdentityKey = "anonymous"

// NormalizeHandle приводит handle к ключу квоты: без ведущего @, в нижнем регистре
func NormalizeHandle(handle string) IdentityKey {
	clean := strings.TrimSpace(handle)
	clean = strings.TrimPrefix(clean, "@")
	clean = strings.ToLower(strings.TrimSpace(clean))
	if clean == "" {
		return AnonymousIdentity
	}
	return IdentityKey(clean)
}

func (k IdentityKey) String() string {
	return string(k)
}

// IsAnonymous проверяет, является ли ключ анонимным
func (k IdentityKey) IsAnonymous() bool {
	return k == AnonymousIdentity
}

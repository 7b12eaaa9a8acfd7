package domain

import (
	"sort"
	"time"
)

const (
	// GenerationLimit максимум генераций на один ключ в окне
	GenerationLimit = 3
	// UsageWindow скользящее окно квоты
	UsageWindow = 24 * time.Hour
	// UsageLogKey единственный ключ хранилища, под которым лежит журнал
	UsageLogKey = "xmas_usage_log"
)

// UsageLog журнал генераций: ключ -> таймстемпы в миллисекундах
// JSON: {"alice": [1734000000000, 1734000100000]}
type UsageLog map[IdentityKey][]int64

// Active возвращает неистёкшие таймстемпы ключа (t истёк, если now - t >= окна)
func (l UsageLog) Active(key IdentityKey, now time.Time) []int64 {
	nowMs := now.UnixMilli()
	windowMs := UsageWindow.Milliseconds()

	active := make([]int64, 0, len(l[key]))
	for _, ts := range l[key] {
		if nowMs-ts < windowMs {
			active = append(active, ts)
		}
	}
	return active
}

// UsageSnapshot состояние квоты ключа на момент времени
type UsageSnapshot struct {
	Key         IdentityKey `json:"key"`
	Limit       int         `json:"limit"`
	Used        int         `json:"used"`
	Remaining   int         `json:"remaining"`
	NextResetAt *time.Time  `json:"next_reset_at,omitempty"` // когда освободится самый старый слот
}

// NewUsageSnapshot собирает снимок по активным таймстемпам
func NewUsageSnapshot(key IdentityKey, active []int64) UsageSnapshot {
	used := len(active)
	if used > GenerationLimit {
		used = GenerationLimit
	}

	snapshot := UsageSnapshot{
		Key:       key,
		Limit:     GenerationLimit,
		Used:      used,
		Remaining: GenerationLimit - used,
	}

	if len(active) > 0 {
		sorted := append([]int64(nil), active...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		resetAt := time.UnixMilli(sorted[0]).Add(UsageWindow)
		snapshot.NextResetAt = &resetAt
	}

	return snapshot
}

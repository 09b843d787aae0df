package utils

import (
	"sync"
	"time"
)

// RateLimiter реализует ограничение частоты запросов
// со скользящим окном по ключу (обычно IP-адресу клиента)
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

// NewRateLimiter создает новый RateLimiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow проверяет, разрешен ли запрос, и возвращает
// количество оставшихся запросов в текущем окне
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	rl.prune(key, now)

	if len(rl.requests[key]) >= rl.limit {
		return false, 0
	}

	rl.requests[key] = append(rl.requests[key], now)
	return true, rl.limit - len(rl.requests[key])
}

// ResetTime возвращает время, когда лимит будет сброшен
func (rl *RateLimiter) ResetTime(key string) time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.prune(key, time.Now())
	if len(rl.requests[key]) == 0 {
		return time.Now()
	}
	return rl.requests[key][0].Add(rl.window)
}

// Reset сбрасывает счетчик для ключа
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.requests, key)
}

// prune удаляет запросы, вышедшие за пределы окна.
// Вызывается только под мьютексом.
func (rl *RateLimiter) prune(key string, now time.Time) {
	windowStart := now.Add(-rl.window)
	kept := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(rl.requests, key)
		return
	}
	rl.requests[key] = kept
}

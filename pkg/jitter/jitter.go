// Package jitter добавляет случайность в интервалы ожидания между повторами,
// чтобы экземпляры сервиса не переподключались к зависимостям синхронно.
package jitter

import (
	"math/rand/v2"
	"time"
)

// DefaultJitter стандартный коэффициент джиттера (50%)
const DefaultJitter = 0.5

// Duration возвращает d с джиттером в диапазоне [d, d*(1+jitterFactor)).
func Duration(d time.Duration, jitterFactor float64) time.Duration {
	return DurationWithRand(d, jitterFactor, rand.Float64)
}

// DurationWithRand работает как Duration, но с заданным источником случайности в [0, 1).
func DurationWithRand(d time.Duration, jitterFactor float64, float func() float64) time.Duration {
	if d <= 0 || jitterFactor <= 0 {
		return d
	}
	return d + time.Duration(float()*jitterFactor*float64(d))
}

// Backoff вычисляет экспоненциальную задержку без джиттера:
// base * 2^attempt, но не более max. attempt считается с нуля.
func Backoff(base, max time.Duration, attempt int) time.Duration {
	backoff := base
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff >= max {
			return max
		}
	}
	return min(backoff, max)
}

// ExponentialBackoff вычисляет экспоненциальную задержку с джиттером.
func ExponentialBackoff(base, max time.Duration, attempt int, jitterFactor float64) time.Duration {
	return Duration(Backoff(base, max, attempt), jitterFactor)
}

package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"creditProposals/utils"
)

var (
	// Глобальный rate limiter: 100 запросов в минуту с одного адреса
	globalLimiter = utils.NewRateLimiter(100, time.Minute)
)

type LoggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *LoggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует информацию о запросе и ответе
// и записывает метрики запросов
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обертку для ResponseWriter
		lrw := &LoggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Обрабатываем запрос
		next.ServeHTTP(lrw, r)

		// Логируем информацию
		duration := time.Since(start)
		utils.LogInfo("Request: %s %s - Status: %d - Duration: %v",
			r.Method,
			r.URL.Path,
			lrw.statusCode,
			duration,
		)

		utils.GetMetrics().RecordRequest(duration, lrw.statusCode)
	})
}

// RateLimitMiddleware ограничивает частоту запросов с одного адреса
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := clientIP(r)

		allowed, remaining := globalLimiter.Allow(clientIP)
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Too many requests",
				"reset": globalLimiter.ResetTime(clientIP).Format(time.RFC3339),
			})
			return
		}

		// Добавляем заголовки с информацией о лимитах
		w.Header().Set("X-RateLimit-Limit", "100")
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		next.ServeHTTP(w, r)
	})
}

// RecoveryMiddleware перехватывает паники в обработчиках
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				utils.LogError("Panic recovered: %v", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// clientIP возвращает IP-адрес клиента
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

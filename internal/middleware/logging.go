package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Пакетный логгер middleware; до SetLogger — no-op.
var logger = zap.NewNop().Sugar()

// SetLogger передаёт логгер в middleware.
func SetLogger(l *zap.SugaredLogger) { logger = l }

type responseData struct {
	status int
	size   int
}

type loggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// WithLogging логгирует метод, URI, статус, размер ответа и длительность запроса.
func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rd := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{ResponseWriter: w, responseData: rd}

		next.ServeHTTP(&lw, r)

		logger.Infow("request",
			"uri", r.RequestURI,
			"method", r.Method,
			"status", rd.status,
			"size", rd.size,
			"duration", time.Since(start),
		)
	})
}

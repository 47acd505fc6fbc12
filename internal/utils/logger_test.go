package utils

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bufferLogger(buf *bytes.Buffer) Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func TestSlogLogger_LogRequestLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf)

	ctx := context.Background()
	logger.LogRequest(ctx, "GET", "/health", http.StatusOK, time.Millisecond)
	assert.Contains(t, buf.String(), "level=INFO")

	buf.Reset()
	logger.LogRequest(ctx, "POST", "/api/v1/quizzes/1/start", http.StatusConflict, 2*time.Millisecond)
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	logger.LogRequest(ctx, "POST", "/api/v1/quizzes/1/submit", http.StatusInternalServerError, 3*time.Millisecond)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "status_code=500")
}

func TestSlogLogger_WithAndLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf).With("component", "test")

	logger.LogError(errors.New("boom"), "Something failed", "attempt_id", 3)

	out := buf.String()
	assert.Contains(t, out, "component=test")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "attempt_id=3")
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggerMiddleware(bufferLogger(&buf)))
	router.GET("/ping", func(c *gin.Context) {
		c.Set("user_id", "student-1")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping?verbose=1", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `path="/ping?verbose=1"`)
	assert.Contains(t, out, "user_id=student-1")
	assert.Contains(t, out, "status_code=204")
	assert.Contains(t, out, "request_id=req-42")
}

func TestToSlogLogger(t *testing.T) {
	base := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.Same(t, base, ToSlogLogger(NewSlogLogger(base)))
}

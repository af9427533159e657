package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TestRequestLogger はアクセスログの出力内容を検証する。
// グローバルロガーを差し替えるため並列実行しない。
func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })

	router := gin.New()
	router.Use(RequestID(), RequestLogger("user-service"))
	router.GET("/user/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ユーザーが見つかりません"})
	})

	req := httptest.NewRequest(http.MethodGet, "/user/7", nil)
	req.Header.Set(HeaderRequestID, "req-log")
	router.ServeHTTP(httptest.NewRecorder(), req)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("ログのJSONデコードに失敗: %v (%q)", err, line)
	}

	want := map[string]any{
		"level":      "warn",
		"svc":        "user-service",
		"method":     http.MethodGet,
		"path":       "/user/7",
		"route":      "/user/:id",
		"status":     float64(http.StatusNotFound),
		"request_id": "req-log",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

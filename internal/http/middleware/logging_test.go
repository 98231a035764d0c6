package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	return &buf
}

// logLines decodes every JSON line written to buf.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, ln := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if ln == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(ln), &m); err != nil {
			t.Fatalf("bad log line %q: %v", ln, err)
		}
		out = append(out, m)
	}
	return out
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/users/:userId/goals", func(c *gin.Context) {
		v, _ := c.Get(requestIDKey)
		seen, _ = v.(string)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
	}{
		{"generated", ""},
		{"propagated", "abc-123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users/1/goals", nil)
			if tt.header != "" {
				req.Header.Set("x-request-id", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			if got == "" || got != seen {
				t.Fatalf("header %q, context %q", got, seen)
			}
			if tt.header != "" && got != tt.header {
				t.Fatalf("expected propagated id %q, got %q", tt.header, got)
			}
		})
	}
}

func TestLogger_LevelsByOutcome(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.GET("/users/:userId/plans", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"plans": []int{}}) })
	r.POST("/users/:userId/plans", func(c *gin.Context) {
		_ = c.Error(errors.New("insert failed"))
		c.Status(http.StatusBadRequest)
	})

	for _, rq := range []struct{ method, path string }{
		{http.MethodGet, "/users/7/plans?date=2024-05-01"},
		{http.MethodGet, "/users/7/nowhere"},
		{http.MethodPost, "/users/7/plans"},
	} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(rq.method, rq.path, nil))
	}

	lines := logLines(t, buf)
	if len(lines) != 3 {
		t.Fatalf("want 3 access lines, got %d", len(lines))
	}
	want := []struct{ level, path string }{
		{"info", "/users/:userId/plans"},
		{"warn", "/users/7/nowhere"}, // unmatched: raw path
		{"error", "/users/:userId/plans"},
	}
	for i, w := range want {
		if lines[i]["level"] != w.level || lines[i]["path"] != w.path {
			t.Fatalf("line %d = %v; want level=%s path=%s", i, lines[i], w.level, w.path)
		}
		if lines[i]["request_id"] == "" {
			t.Fatalf("line %d missing request_id", i)
		}
	}
	if lines[0]["query"] != "date=2024-05-01" {
		t.Fatalf("query = %v", lines[0]["query"])
	}
	if !strings.Contains(asString(lines[2]["errors"]), "insert failed") {
		t.Fatalf("errors field = %v", lines[2]["errors"])
	}
}

func TestLogger_UserIDFromOptionalAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID(), Logger())
	r.Use(OptionalAuth(parserFunc(func(string) (uint, error) { return 5, nil })))
	r.GET("/plans", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("listing plans")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/plans", nil)
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, buf)
	if len(lines) != 2 {
		t.Fatalf("want 2 log lines, got %d: %s", len(lines), buf.String())
	}
	if lines[0]["message"] != "listing plans" || lines[0]["user_id"] != "5" {
		t.Fatalf("handler log missing user_id: %v", lines[0])
	}
	if lines[1]["message"] != "request" || lines[1]["user_id"] != "5" {
		t.Fatalf("access log missing user_id: %v", lines[1])
	}
}

func TestLoggerFrom_FallsBackToGlobal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogger(t)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		LoggerFrom(c).Info().Msg("bare")
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	lines := logLines(t, buf)
	if len(lines) != 1 || lines[0]["message"] != "bare" {
		t.Fatalf("unexpected: %v", lines)
	}
	if _, has := lines[0]["request_id"]; has {
		t.Fatal("fallback logger should carry no request fields")
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("before write", func(t *testing.T) {
		buf := captureLogger(t)
		r := gin.New()
		r.Use(RequestID(), Recovery())
		r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/panic", nil)
		req.Header.Set(requestIDHeader, "rid-p")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json body: %v", err)
		}
		if body["code"] != "internal_error" || body["error"] != "internal server error" || body["request_id"] != "rid-p" {
			t.Fatalf("unexpected body: %v", body)
		}
		lines := logLines(t, buf)
		if len(lines) != 1 || lines[0]["message"] != "panic recovered" || lines[0]["panic"] != "kaboom" {
			t.Fatalf("unexpected panic log: %v", lines)
		}
	})

	t.Run("after write", func(t *testing.T) {
		captureLogger(t)
		r := gin.New()
		r.Use(RequestID(), Recovery())
		r.GET("/panic", func(c *gin.Context) {
			c.String(http.StatusOK, "partial")
			panic("late")
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if strings.Contains(w.Body.String(), "internal_error") {
			t.Fatalf("JSON body written after partial response: %q", w.Body.String())
		}
	})
}

func TestHelpers_asString_and_truncate(t *testing.T) {
	if asString("x") != "x" || asString(123) != "" || asString(nil) != "" {
		t.Fatalf("asString failed")
	}
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"abcdefgh", 5, "abcde…"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q,%d) = %q; want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// logEntries parses every JSON log line written to buf.
func logEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log output should be valid JSON")
		entries = append(entries, entry)
	}
	return entries
}

func findEntry(entries []map[string]interface{}, message string) map[string]interface{} {
	for _, entry := range entries {
		if entry["message"] == message {
			return entry
		}
	}
	return nil
}

// =====================================================
// Request ID Middleware Tests
// =====================================================

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generates new id"},
		{name: "propagates existing id", incoming: "existing-request-id-12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/v1/pages/p1")
			if tt.incoming != "" {
				c.Request().Header.Set(RequestIDHeader, tt.incoming)
			}

			handler := RequestID()(func(c echo.Context) error {
				return c.String(http.StatusOK, "ok")
			})
			require.NoError(t, handler(c))

			reqID := rec.Header().Get(RequestIDHeader)
			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, reqID)
			} else {
				assert.Len(t, reqID, 36, "should be UUID format (36 chars)")
			}
			assert.Equal(t, reqID, GetRequestID(c))
		})
	}
}

func TestGetRequestID_ReturnsEmptyWhenNotSet(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/test")
	assert.Empty(t, GetRequestID(c))
}

func TestContextLogger_AttachesScopedLogger(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	c, _ := newContext(http.MethodGet, "/api/v1/listings/deals")
	c.Set(requestIDKey, "ctx-req-id")

	handler := ContextLogger(logger)(func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("from handler")
		return nil
	})
	require.NoError(t, handler(c))

	entry := findEntry(logEntries(t, &logBuf), "from handler")
	require.NotNil(t, entry)
	assert.Equal(t, "ctx-req-id", entry["request_id"])
}

// =====================================================
// Request Logging Middleware Tests
// =====================================================

func TestRequestLogger_LogsRequestDetails(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf).With().Timestamp().Logger()

	e := echo.New()
	e.Use(RequestID())
	e.Use(RequestLogger(logger))
	e.PUT("/api/v1/pages/:id/regions/:region/page", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/pages/sess-1/regions/all/page?trace=1", nil)
	req.Header.Set("User-Agent", "TestAgent/1.0")
	req.Header.Set("X-Real-IP", "192.168.1.100")
	req.Header.Set(RequestIDHeader, "test-req-id-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	entry := findEntry(logEntries(t, &logBuf), "HTTP request")
	require.NotNil(t, entry)

	assert.Equal(t, "test-req-id-123", entry["request_id"])
	assert.Equal(t, "PUT", entry["method"])
	assert.Equal(t, "/api/v1/pages/sess-1/regions/all/page", entry["path"])
	assert.Equal(t, "/api/v1/pages/:id/regions/:region/page", entry["route"])
	assert.Equal(t, "sess-1", entry["session_id"])
	assert.Equal(t, "all", entry["region"])
	assert.Equal(t, "trace=1", entry["query"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "192.168.1.100", entry["client_ip"])
	assert.Equal(t, "TestAgent/1.0", entry["user_agent"])
	assert.Equal(t, "info", entry["level"])

	duration, ok := entry["duration_ms"].(float64)
	assert.True(t, ok, "duration_ms should be a number")
	assert.GreaterOrEqual(t, duration, float64(0))
}

func TestRequestLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		wantLevel string
	}{
		{name: "success", path: "/api/v1/listings/deals", status: http.StatusOK, wantLevel: "info"},
		{name: "health is quiet", path: "/health", status: http.StatusOK, wantLevel: "debug"},
		{name: "swagger is quiet", path: "/swagger/index.html", status: http.StatusOK, wantLevel: "debug"},
		{name: "client error", path: "/api/v1/pages/gone", status: http.StatusNotFound, wantLevel: "warn"},
		{name: "failing health is not quiet", path: "/health", status: http.StatusServiceUnavailable, wantLevel: "error"},
		{name: "server error", path: "/api/v1/listings/deals", status: http.StatusInternalServerError, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			logger := zerolog.New(&logBuf)

			c, _ := newContext(http.MethodGet, tt.path)
			handler := RequestLogger(logger)(func(c echo.Context) error {
				return c.String(tt.status, "body")
			})
			require.NoError(t, handler(c))

			entry := findEntry(logEntries(t, &logBuf), "HTTP request")
			require.NotNil(t, entry)
			assert.Equal(t, float64(tt.status), entry["status"])
			assert.Equal(t, tt.wantLevel, entry["level"])
		})
	}
}

func TestRequestLogger_HandlesReturnedError(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	c, rec := newContext(http.MethodGet, "/missing")
	handler := RequestLogger(logger)(func(c echo.Context) error {
		return echo.ErrNotFound
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	entry := findEntry(logEntries(t, &logBuf), "HTTP request")
	require.NotNil(t, entry)
	assert.Equal(t, float64(404), entry["status"])
}

// =====================================================
// Recovery Middleware Tests
// =====================================================

func TestRecover_Returns500OnPanic(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		wantMsg string
	}{
		{
			name:    "string panic",
			handler: func(c echo.Context) error { panic("listing renderer exploded") },
			wantMsg: "listing renderer exploded",
		},
		{
			name: "runtime error",
			handler: func(c echo.Context) error {
				var regions []string
				_ = regions[3]
				return nil
			},
			wantMsg: "runtime error: index out of range [3] with length 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf bytes.Buffer
			logger := zerolog.New(&logBuf)

			c, rec := newContext(http.MethodGet, "/panic")
			c.Set(requestIDKey, "panic-test-id")

			assert.NotPanics(t, func() {
				_ = Recover(logger)(tt.handler)(c)
			})

			assert.Equal(t, http.StatusInternalServerError, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "internal_error", body["code"])
			assert.Equal(t, "An unexpected error occurred", body["message"])
			assert.NotContains(t, body, "details")

			entry := findEntry(logEntries(t, &logBuf), "Panic recovered")
			require.NotNil(t, entry)
			assert.Equal(t, "error", entry["level"])
			assert.Equal(t, "panic-test-id", entry["request_id"])
			assert.Equal(t, tt.wantMsg, entry["panic"])
			stack, _ := entry["stack"].(string)
			assert.Contains(t, stack, "goroutine")
		})
	}
}

func TestRecover_PassesThroughNormalRequests(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	c, rec := newContext(http.MethodGet, "/normal")
	handler := Recover(logger)(func(c echo.Context) error {
		return c.String(http.StatusOK, "normal response")
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "normal response", rec.Body.String())
	assert.Empty(t, logBuf.String(), "should not log anything for normal requests")
}

func TestRecoverWithConfig_DisableStackPrint(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	c, _ := newContext(http.MethodGet, "/panic")
	handler := RecoverWithConfig(logger, RecoveryConfig{DisablePrintStack: true})(func(c echo.Context) error {
		panic("no stack test")
	})
	_ = handler(c)

	entry := findEntry(logEntries(t, &logBuf), "Panic recovered")
	require.NotNil(t, entry)
	assert.NotContains(t, entry, "stack", "stack should not be logged when disabled")
}

// =====================================================
// Setup Helper Tests
// =====================================================

func TestSetup_AppliesAllMiddleware(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	e := echo.New()
	Setup(e, logger)
	e.GET("/test", func(c echo.Context) error {
		zerolog.Ctx(c.Request().Context()).Info().Msg("inside handler")
		return c.String(http.StatusOK, "setup test")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	reqID := rec.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, reqID, "RequestID middleware should set header")

	entries := logEntries(t, &logBuf)
	inside := findEntry(entries, "inside handler")
	require.NotNil(t, inside, "ContextLogger should attach the logger")
	assert.Equal(t, reqID, inside["request_id"])
	assert.NotNil(t, findEntry(entries, "HTTP request"), "RequestLogger middleware should log")
}

func TestSetup_RecoversPanic(t *testing.T) {
	var logBuf bytes.Buffer
	logger := zerolog.New(&logBuf)

	e := echo.New()
	Setup(e, logger)
	e.GET("/panic", func(c echo.Context) error {
		panic("setup panic test")
	})

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	entry := findEntry(logEntries(t, &logBuf), "HTTP request")
	require.NotNil(t, entry)
	assert.Equal(t, float64(500), entry["status"])
}

func TestSetupWithConfig_BodyLimitAndCORS(t *testing.T) {
	logger := zerolog.Nop()

	e := echo.New()
	SetupWithConfig(e, logger, Config{
		BodyLimit:    "1K",
		AllowOrigins: []string{"https://wanderlust.example"},
	})
	e.POST("/api/v1/pages", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pages", strings.NewReader(strings.Repeat("x", 2048)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/pages", strings.NewReader("{}"))
	req.Header.Set(echo.HeaderOrigin, "https://wanderlust.example")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "https://wanderlust.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestChain_ReturnsMiddlewareSlice(t *testing.T) {
	logger := zerolog.Nop()

	assert.Len(t, Chain(logger), 5, "request id, logger, recover, context logger and body limit")
	assert.Len(t, ChainWithConfig(logger, Config{}), 4, "no optional middleware")
	assert.Len(t, ChainWithConfig(logger, Config{BodyLimit: "1M", AllowOrigins: []string{"*"}}), 6)

	e := echo.New()
	api := e.Group("/api", Chain(logger)...)
	api.GET("/test", func(c echo.Context) error {
		return c.String(http.StatusOK, "chain test")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(50 * time.Millisecond))
	app.Get("/slow", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		_, ok := ctx.Deadline()
		require.True(t, ok)

		select {
		case <-ctx.Done():
			return c.Status(fiber.StatusRequestTimeout).SendString(ctx.Err().Error())
		case <-time.After(time.Second):
			return c.SendStatus(fiber.StatusOK)
		}
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/slow", nil), 2000)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusRequestTimeout, resp.StatusCode)
}

func TestRequestTimeout_Disabled(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(0))
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := c.UserContext().Deadline()
		assert.False(t, ok)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestStructuredLogger_EnrichesWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = NewLogger("production", "info", &buf)
	t.Cleanup(func() { Logger = prev })

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	app.Get("/ping", func(c *fiber.Ctx) error {
		c.SetUserContext(WithUserID(c.UserContext(), 7))
		return c.SendString("pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-123"`)
	assert.Contains(t, out, `"user_id":7`)
	assert.Contains(t, out, `"status":200`)
}

func TestStructuredLogger_LogsErrorStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := Logger
	Logger = NewLogger("production", "info", &buf)
	t.Cleanup(func() { Logger = prev })

	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("boom")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"status":404`)
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Contains(t, lines[0], `"error":"Cannot GET /nope"`)
	assert.Contains(t, lines[1], `"status":500`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
}

func TestCtxHandler_WithAttrsKeepsContext(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("production", "debug", &buf).With("component", "test")

	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")
	l.DebugContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
	assert.Contains(t, buf.String(), `"component":"test"`)
}

func TestTracingMiddleware_SetsTraceHeader(t *testing.T) {
	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		assert.NotNil(t, c.Locals("traceID"))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/middleware"
)

func TestCorrelationIDPropagatesIncomingHeader(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	var fromContext string
	app.Get("/", func(c *fiber.Ctx) error {
		fromContext = middleware.CorrelationIDFromContext(c.UserContext())
		return c.SendString(middleware.GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "req-123", resp.Header.Get("X-Correlation-ID"))
	require.Equal(t, "req-123", fromContext)
}

func TestCorrelationIDGeneratesWhenMissing(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, resp.Header.Get("X-Correlation-ID"), 36)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	app := fiber.New()
	app.Post("/grade", middleware.RateLimit("grading", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/grade", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	require.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, statuses)
}

func TestRegisterExposesCacheHeaderAndRecovers(t *testing.T) {
	app := fiber.New()
	middleware.Register(app, middleware.Config{AllowOrigins: "https://registrar.example.edu"})
	app.Get("/api/v1/students/:uid/gpa", func(c *fiber.Ctx) error {
		c.Set("X-Cache-Hit", "true")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/api/v1/panic", func(c *fiber.Ctx) error {
		panic("store exploded")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/students/u0000001/gpa", nil)
	req.Header.Set("Origin", "https://registrar.example.edu")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "https://registrar.example.edu", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "X-Cache-Hit")
	require.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/panic", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

package observability_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-lms-api/internal/observability"
)

func TestMetricsHandlerExposesRecomputeCounters(t *testing.T) {
	observability.GradeRecomputes().WithLabelValues("submission_scored", "changed").Inc()
	observability.GradeRecomputeDuration().WithLabelValues("submission_scored").Observe(0.02)

	app := fiber.New()
	app.Get("/metrics", observability.MetricsHandler())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `grade_recompute_total{outcome="changed",trigger="submission_scored"}`)
	require.Contains(t, string(body), "grade_recompute_batch_seconds_bucket")
}

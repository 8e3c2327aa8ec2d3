package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("GEMA_DATABASE_URL", "postgres://localhost/gema")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "GEMA LMS API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "gema.grades", cfg.GradesSubject)
	require.Equal(t, 10*time.Minute, cfg.GPACacheTTL)
	require.Equal(t, 4, cfg.RecomputeConcurrency)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("GEMA_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	t.Setenv("GEMA_DATABASE_URL", "postgres://localhost/gema")
	t.Setenv("GEMA_GPA_CACHE_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadClampsConcurrency(t *testing.T) {
	t.Setenv("GEMA_DATABASE_URL", "postgres://localhost/gema")
	t.Setenv("GEMA_RECOMPUTE_CONCURRENCY", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.RecomputeConcurrency)
}

func TestHTTPAddressKeepsColonPrefix(t *testing.T) {
	cfg := Config{AppPort: ":9090"}
	require.Equal(t, ":9090", cfg.HTTPAddress())
}

func TestLoadReadsCORSOrigins(t *testing.T) {
	t.Setenv("GEMA_DATABASE_URL", "postgres://localhost/gema")
	t.Setenv("GEMA_CORS_ORIGINS", "https://registrar.example.edu")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://registrar.example.edu", cfg.CORSOrigins)
}

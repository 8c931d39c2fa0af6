package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 10, cfg.Ranking.DefaultN)
	assert.Equal(t, 100000.0, cfg.Metrics.RevenueThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:olist.db")
	t.Setenv("RANKING_DEFAULT_N", "25")
	t.Setenv("REVENUE_THRESHOLD", "50000")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:olist.db", cfg.Store.DSN)
	assert.Equal(t, 25, cfg.Ranking.DefaultN)
	assert.Equal(t, 50000.0, cfg.Metrics.RevenueThreshold)
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("RANKING_DEFAULT_N", "lots")

	cfg := Load()

	assert.Equal(t, 10, cfg.Ranking.DefaultN)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "verse-engine.db", cfg.DBPath)
	assert.Equal(t, "./assets", cfg.AssetDir)
	assert.Empty(t, cfg.DataDir)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("ASSET_DIR", "/srv/assets")

	cfg := Load()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "/srv/assets", cfg.AssetDir)
}

func TestLoad_BadPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	assert.Equal(t, 8080, Load().Port)
}

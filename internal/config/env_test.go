package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("REPORT_ORIENTATION", "p")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "A4", env.PageSize)
	assert.Equal(t, "P", env.Orientation)
	assert.Equal(t, 10.0, env.MarginMM)
	assert.Equal(t, 1200.0, env.TemplateWidthPX)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, env.CORSOrigins)
	assert.Equal(t, "info", env.Level)
}

func TestLoadEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("REPORT_MARGIN_MM", "wide")
	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestDSNString(t *testing.T) {
	e := DBEnv{User: "fleet", Password: "secret", Host: "db:3306", Name: "fleet"}
	dsn := e.DSNString()
	assert.True(t, strings.HasPrefix(dsn, "fleet:secret@tcp(db:3306)/fleet?"))
	assert.Contains(t, dsn, "parseTime=true")

	assert.Equal(t, "raw", DBEnv{DSN: "raw"}.DSNString())
}

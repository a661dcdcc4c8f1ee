package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "localhost"
port = 5432
user = "salon"
password = "secret"
dbname = "salon"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "America/Los_Angeles", cfg.Scheduling.Timezone)
	assert.Equal(t, 1, cfg.Scheduling.DefaultBufferHours)
	assert.Equal(t, 20, cfg.Scheduling.ExhaustiveMaxItems)
	assert.Equal(t, 4, cfg.Scheduling.ExhaustiveMaxLanes)
	assert.Equal(t, 9, cfg.Scheduling.WeekdayOpenHour)
	assert.Equal(t, 19, cfg.Scheduling.WeekdayCloseHour)
	assert.Equal(t, 10, cfg.Scheduling.SundayOpenHour)
	assert.Equal(t, 17, cfg.Scheduling.SundayCloseHour)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "host=localhost port=5432 user=salon password=secret dbname=salon sslmode=disable", cfg.Database.DSN())
}

func TestLoad_ReadsSections(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "salon"

[scheduling]
timezone = "America/New_York"
default_buffer_hours = 2

[auth]
staff_user_ids = [1, 7]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 2, cfg.Scheduling.DefaultBufferHours)
	assert.Equal(t, []int64{1, 7}, cfg.Auth.StaffUserIDs)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("HTTP_PORT", "7070")

	path := writeConfig(t, `
[database]
host = "db"
dbname = "salon"
password = "from-file"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing database",
			content: `[server]` + "\n" + `http_port = 8080`,
		},
		{
			name: "unknown timezone",
			content: `
[database]
host = "db"
dbname = "salon"
[scheduling]
timezone = "Mars/Olympus"
`,
		},
		{
			name: "inverted hours",
			content: `
[database]
host = "db"
dbname = "salon"
[scheduling]
weekday_open_hour = 19
weekday_close_hour = 9
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

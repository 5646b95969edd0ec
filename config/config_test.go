package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetForTest clears keys for the duration of a test and restores them afterwards.
func unsetForTest(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

// chdirForTest changes the working directory for the duration of a test and
// restores it afterwards (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigDefaults(t *testing.T) {
	chdirForTest(t, t.TempDir())
	unsetForTest(t, "APP_ENV", "APP_NAME", "JWT_SECRET", "JWT_ALGORITHM",
		"JWT_ACCESS_TOKEN_EXPIRE_MINUTES", "DB_CONNECTION", "SERVER_PORT", "ALLOWED_ORIGINS")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, "HS256", cfg.JWT.SigningAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL())
	assert.Equal(t, DriverPostgres, cfg.Database.Connection)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
	assert.True(t, cfg.ExposeErrors())
}

func TestLoadConfigLayersEnvFiles(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	unsetForTest(t, "APP_NAME", "JWT_SECRET", "SERVER_PORT")
	t.Setenv("APP_ENV", "staging")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"),
		[]byte("JWT_SECRET=staging-secret\nSERVER_PORT=9001\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("JWT_SECRET=base-secret\nAPP_NAME=From Base\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "staging-secret", cfg.JWT.Secret)
	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, "From Base", cfg.App.Name)
}

func TestLoadConfigEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	unsetForTest(t, "APP_ENV")
	t.Setenv("JWT_SECRET", "from-process")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-file\n"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-process", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			JWT:      JWTConfig{Secret: "s", SigningAlgorithm: "HS256", ExpireMinutes: 30},
			Database: DatabaseConfig{Connection: DriverSQLite},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"empty secret", func(c *Config) { c.JWT.Secret = "  " }, true},
		{"asymmetric algorithm", func(c *Config) { c.JWT.SigningAlgorithm = "RS256" }, true},
		{"zero ttl", func(c *Config) { c.JWT.ExpireMinutes = 0 }, true},
		{"unknown driver", func(c *Config) { c.Database.Connection = "mysql" }, true},
		{"hs512", func(c *Config) { c.JWT.SigningAlgorithm = "HS512" }, false},
		{"placeholder secret locally", func(c *Config) { c.JWT.Secret = DefaultJWTSecret }, false},
		{"placeholder secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = DefaultJWTSecret
		}, true},
		{"real secret in production", func(c *Config) { c.App.Environment = "production" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigProductionRequiresSecret(t *testing.T) {
	chdirForTest(t, t.TempDir())
	unsetForTest(t, "JWT_SECRET")
	t.Setenv("APP_ENV", "production")

	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConnectionString(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Connection: DriverPostgres, Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=n sslmode=disable", cfg.DatabaseConnectionString())

	cfg.Database.Connection = DriverSQLite
	cfg.Database.SQLitePath = "local.db"
	assert.Equal(t, "local.db", cfg.DatabaseConnectionString())
}

func TestExposeErrors(t *testing.T) {
	cfg := &Config{App: AppConfig{Debug: true, Environment: "production"}}
	assert.False(t, cfg.ExposeErrors())

	cfg.App.Environment = "local"
	assert.True(t, cfg.ExposeErrors())

	cfg.App.Debug = false
	assert.False(t, cfg.ExposeErrors())
}

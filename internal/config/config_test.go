package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// DatabaseConfig.GetDSN
// ---------------------------------------------------------------------------

func TestGetDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "standard config",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "cem",
				Password: "secret",
				Name:     "cem_events",
				SSLMode:  "require",
			},
			want: "host=localhost port=5432 user=cem password=secret dbname=cem_events sslmode=require",
		},
		{
			name: "disable ssl mode",
			cfg: DatabaseConfig{
				Host:     "db.example.com",
				Port:     5433,
				User:     "admin",
				Password: "pass",
				Name:     "mydb",
				SSLMode:  "disable",
			},
			want: "host=db.example.com port=5433 user=admin password=pass dbname=mydb sslmode=disable",
		},
		{
			name: "empty password",
			cfg: DatabaseConfig{
				Host:     "localhost",
				Port:     5432,
				User:     "user",
				Password: "",
				Name:     "dbname",
				SSLMode:  "prefer",
			},
			want: "host=localhost port=5432 user=user password= dbname=dbname sslmode=prefer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.GetDSN()
			if got != tt.want {
				t.Errorf("GetDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// ServerConfig.GetAddress
// ---------------------------------------------------------------------------

func TestGetAddress(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{"default", ServerConfig{Host: "0.0.0.0", Port: 8080}, "0.0.0.0:8080"},
		{"localhost", ServerConfig{Host: "localhost", Port: 3000}, "localhost:3000"},
		{"empty host", ServerConfig{Host: "", Port: 8080}, ":8080"},
		{"port 443", ServerConfig{Host: "0.0.0.0", Port: 443}, "0.0.0.0:443"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cfg.GetAddress()
			if got != tt.want {
				t.Errorf("GetAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Config.Validate
// ---------------------------------------------------------------------------

func minimalValidConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Host: "localhost",
			Name: "cem_events",
			User: "cem",
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				Secret:   "0123456789abcdef0123456789abcdef",
				TokenTTL: 24 * time.Hour,
			},
			Password: PasswordConfig{BcryptCost: 12, MinLength: 6},
			Lockout:  LockoutConfig{MaxAttempts: 5, Duration: 2 * time.Hour},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid minimal config passes", func(t *testing.T) {
		if err := minimalValidConfig().Validate(); err != nil {
			t.Errorf("Validate() unexpected error: %v", err)
		}
	})

	t.Run("invalid server port 0", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Server.Port = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for port 0, got nil")
		}
	})

	t.Run("invalid server port 70000", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Server.Port = 70000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for port 70000, got nil")
		}
	})

	t.Run("missing base_url", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Server.BaseURL = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for empty base_url, got nil")
		}
	})

	t.Run("missing database host", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Database.Host = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for empty database host, got nil")
		}
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.JWT.Secret = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for empty jwt secret, got nil")
		}
	})

	t.Run("zero token ttl", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.JWT.TokenTTL = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for zero token_ttl, got nil")
		}
	})

	t.Run("bcrypt cost too low", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.Password.BcryptCost = 4
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for bcrypt cost 4, got nil")
		}
	})

	t.Run("bcrypt cost too high", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.Password.BcryptCost = 32
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for bcrypt cost 32, got nil")
		}
	})

	t.Run("zero lockout attempts", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.Lockout.MaxAttempts = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for zero max_attempts, got nil")
		}
	})

	t.Run("negative lockout duration", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Auth.Lockout.Duration = -time.Hour
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for negative lockout duration, got nil")
		}
	})

	t.Run("tls enabled missing cert_file", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Security.TLS = TLSConfig{Enabled: true, KeyFile: "key.pem"}
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for missing tls cert_file, got nil")
		}
	})

	t.Run("tls enabled missing key_file", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Security.TLS = TLSConfig{Enabled: true, CertFile: "cert.pem"}
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for missing tls key_file, got nil")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		cfg := minimalValidConfig()
		cfg.Logging.Level = "verbose"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() expected error for invalid log level, got nil")
		}
	})

	t.Run("all valid log levels pass", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			cfg := minimalValidConfig()
			cfg.Logging.Level = level
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() unexpected error for log level %q: %v", level, err)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// expandEnv
// ---------------------------------------------------------------------------

func TestExpandEnv(t *testing.T) {
	t.Run("expands ${VAR} syntax", func(t *testing.T) {
		t.Setenv("CONFIG_TEST_SECRET", "super-secret")
		got := expandEnv("${CONFIG_TEST_SECRET}")
		if got != "super-secret" {
			t.Errorf("expandEnv() = %q, want %q", got, "super-secret")
		}
	})

	t.Run("plain string passthrough", func(t *testing.T) {
		got := expandEnv("no-vars-here")
		if got != "no-vars-here" {
			t.Errorf("expandEnv() = %q, want %q", got, "no-vars-here")
		}
	})

	t.Run("unset variable expands to empty string", func(t *testing.T) {
		os.Unsetenv("CONFIG_TEST_DEFINITELY_UNSET_12345")
		got := expandEnv("${CONFIG_TEST_DEFINITELY_UNSET_12345}")
		if got != "" {
			t.Errorf("expandEnv() = %q, want empty string", got)
		}
	})
}

// ---------------------------------------------------------------------------
// resolveJWTSecret — production fail-fast vs dev generation
// ---------------------------------------------------------------------------

func TestResolveJWTSecret_ProductionFailsFast(t *testing.T) {
	t.Setenv("DEV_MODE", "")
	t.Setenv("GIN_MODE", "release")

	cfg := minimalValidConfig()
	cfg.Auth.JWT.Secret = ""
	err := cfg.resolveJWTSecret()
	if err == nil {
		t.Fatal("resolveJWTSecret() expected error without a secret outside dev mode")
	}
	if !strings.Contains(err.Error(), "auth.jwt.secret is required") {
		t.Errorf("resolveJWTSecret() error = %v, want mention of auth.jwt.secret", err)
	}
}

func TestResolveJWTSecret_DevModeGeneratesSecret(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	cfg := minimalValidConfig()
	cfg.Auth.JWT.Secret = ""
	if err := cfg.resolveJWTSecret(); err != nil {
		t.Fatalf("resolveJWTSecret() error in dev mode: %v", err)
	}
	// 32 random bytes hex-encoded
	if len(cfg.Auth.JWT.Secret) != 64 {
		t.Errorf("generated secret length = %d, want 64", len(cfg.Auth.JWT.Secret))
	}
}

func TestResolveJWTSecret_ExplicitSecretKept(t *testing.T) {
	t.Setenv("DEV_MODE", "true")

	cfg := minimalValidConfig()
	cfg.Auth.JWT.Secret = "explicitly-configured-secret-value"
	if err := cfg.resolveJWTSecret(); err != nil {
		t.Fatalf("resolveJWTSecret() error: %v", err)
	}
	if cfg.Auth.JWT.Secret != "explicitly-configured-secret-value" {
		t.Errorf("explicit secret was replaced: %q", cfg.Auth.JWT.Secret)
	}
}

// ---------------------------------------------------------------------------
// Load — defaults, config file, env var expansion
// ---------------------------------------------------------------------------

// writeTempConfig creates a temp YAML file and registers a cleanup to remove it.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "config-test-*.yaml")
	if err != nil {
		t.Fatal("CreateTemp:", err)
	}
	t.Cleanup(func() { os.Remove(f.Name()) })
	if _, err := f.WriteString(content); err != nil {
		t.Fatal("WriteString:", err)
	}
	f.Close()
	return f.Name()
}

func TestLoad_WithConfigFile(t *testing.T) {
	const content = `
server:
  host: "testhost"
  port: 9999
  base_url: "http://testhost:9999"
database:
  host: "dbhost"
  name: "testdb"
  user: "testuser"
auth:
  jwt:
    secret: "0123456789abcdef0123456789abcdef"
logging:
  level: "debug"
`
	path := writeTempConfig(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "testhost" {
		t.Errorf("Server.Host = %q, want testhost", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Database.Host != "dbhost" {
		t.Errorf("Database.Host = %q, want dbhost", cfg.Database.Host)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	// Config with only the required secret — setDefaults() should fill in the rest.
	const content = `
auth:
  jwt:
    secret: "0123456789abcdef0123456789abcdef"
`
	path := writeTempConfig(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("default Database.Port = %d, want 5432", cfg.Database.Port)
	}
	if cfg.Database.Name != "cem_events" {
		t.Errorf("default Database.Name = %q, want cem_events", cfg.Database.Name)
	}
	if cfg.Auth.JWT.TokenTTL != 24*time.Hour {
		t.Errorf("default Auth.JWT.TokenTTL = %v, want 24h", cfg.Auth.JWT.TokenTTL)
	}
	if cfg.Auth.Password.BcryptCost != 12 {
		t.Errorf("default Auth.Password.BcryptCost = %d, want 12", cfg.Auth.Password.BcryptCost)
	}
	if cfg.Auth.Lockout.MaxAttempts != 5 {
		t.Errorf("default Auth.Lockout.MaxAttempts = %d, want 5", cfg.Auth.Lockout.MaxAttempts)
	}
	if cfg.Auth.Lockout.Duration != 2*time.Hour {
		t.Errorf("default Auth.Lockout.Duration = %v, want 2h", cfg.Auth.Lockout.Duration)
	}
	if !cfg.Audit.Enabled {
		t.Error("default Audit.Enabled = false, want true")
	}
	if cfg.Telemetry.Metrics.PrometheusPort != 9090 {
		t.Errorf("default Telemetry.Metrics.PrometheusPort = %d, want 9090", cfg.Telemetry.Metrics.PrometheusPort)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	t.Setenv("CEM_AUTH_JWT_SECRET", "env-provided-secret-0123456789abcdef")
	t.Setenv("CEM_DATABASE_HOST", "env-db-host")
	t.Setenv("CEM_AUTH_LOCKOUT_MAX_ATTEMPTS", "3")

	const content = `
database:
  host: "file-db-host"
`
	path := writeTempConfig(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Auth.JWT.Secret != "env-provided-secret-0123456789abcdef" {
		t.Errorf("Auth.JWT.Secret = %q, want env value", cfg.Auth.JWT.Secret)
	}
	if cfg.Database.Host != "env-db-host" {
		t.Errorf("Database.Host = %q, want env-db-host (env should win over file)", cfg.Database.Host)
	}
	if cfg.Auth.Lockout.MaxAttempts != 3 {
		t.Errorf("Auth.Lockout.MaxAttempts = %d, want 3", cfg.Auth.Lockout.MaxAttempts)
	}
}

func TestLoad_PasswordExpansion(t *testing.T) {
	t.Setenv("TEST_DB_PASS", "mysecret")
	const content = `
database:
  password: "${TEST_DB_PASS}"
auth:
  jwt:
    secret: "0123456789abcdef0123456789abcdef"
`
	path := writeTempConfig(t, content)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Database.Password != "mysecret" {
		t.Errorf("Database.Password = %q, want mysecret", cfg.Database.Password)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "server: [unclosed")
	_, err := Load(path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_MissingSecretOutsideDevMode(t *testing.T) {
	t.Setenv("DEV_MODE", "")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CEM_AUTH_JWT_SECRET", "")

	const content = `
server:
  port: 8080
`
	path := writeTempConfig(t, content)
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error without a JWT secret outside dev mode")
	}
	if !strings.Contains(err.Error(), "auth.jwt.secret") {
		t.Errorf("Load() error = %v, want mention of auth.jwt.secret", err)
	}
}

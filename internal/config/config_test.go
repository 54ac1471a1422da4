package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/frotafuel")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Import.MaxFileSize != 10*1024*1024 {
		t.Errorf("max file size = %d, want 10MB", cfg.Import.MaxFileSize)
	}
	if cfg.Import.Timezone != "America/Sao_Paulo" {
		t.Errorf("timezone = %q", cfg.Import.Timezone)
	}
	if cfg.Database.MaxConns != 10 {
		t.Errorf("max conns = %d", cfg.Database.MaxConns)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("shutdown timeout = %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoadRequiredDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}
}

func TestLoadDatabaseURLAlternate(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "postgres://localhost/alt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.URL != "postgres://localhost/alt" {
		t.Errorf("url = %q", cfg.Database.URL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/frotafuel")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("IMPORT_MAX_FILE_SIZE", "1048576")
	t.Setenv("IMPORT_TIMEZONE", "UTC")
	t.Setenv("SERVER_READ_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Import.MaxFileSize != 1048576 {
		t.Errorf("max file size = %d", cfg.Import.MaxFileSize)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}

	loc, err := cfg.Import.Location()
	if err != nil {
		t.Fatalf("Location: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("location = %v", loc)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		envs    map[string]string
		wantErr string
	}{
		{
			name:    "bad duration",
			envs:    map[string]string{"SERVER_READ_TIMEOUT": "fast"},
			wantErr: "SERVER_READ_TIMEOUT",
		},
		{
			name:    "bad integer",
			envs:    map[string]string{"SERVER_PORT": "eighty"},
			wantErr: "SERVER_PORT",
		},
		{
			name:    "port out of range",
			envs:    map[string]string{"SERVER_PORT": "99999"},
			wantErr: "port",
		},
		{
			name:    "unknown timezone",
			envs:    map[string]string{"IMPORT_TIMEZONE": "Mars/Olympus"},
			wantErr: "timezone",
		},
		{
			name:    "min conns above max",
			envs:    map[string]string{"DB_MIN_CONNS": "50"},
			wantErr: "min conns",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/frotafuel")
			for k, v := range tt.envs {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Store != DefaultStore {
		t.Errorf("Store = %q, want %q", cfg.Store, DefaultStore)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("ServerURL = %q, want %q", cfg.ServerURL, DefaultServerURL)
	}
}

func TestDefault_PortEnvOverride(t *testing.T) {
	t.Setenv("PORT", "8081")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if cfg.Port != 8081 {
		t.Errorf("Port = %d, want 8081", cfg.Port)
	}
}

func TestDefault_InvalidPortEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")

	if _, err := Default(); err == nil {
		t.Fatal("expected error for non-numeric PORT")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		want    Config
		wantErr string
	}{
		{
			name: "yaml",
			data: "port: 9000\nstore: sqlite\nlog_level: debug\n",
			ext:  ".yaml",
			want: Config{Port: 9000, Store: "sqlite", LogLevel: "debug", LogFormat: "text", ServerURL: DefaultServerURL},
		},
		{
			name: "toml",
			data: "port = 9001\nlog_format = \"json\"\nserver_url = \"http://todos.local:9001\"\n",
			ext:  ".toml",
			want: Config{Port: 9001, Store: "memory", LogLevel: "info", LogFormat: "json", ServerURL: "http://todos.local:9001"},
		},
		{
			name: "empty yaml uses defaults",
			data: "",
			ext:  ".yml",
			want: Config{Port: DefaultPort, Store: "memory", LogLevel: "info", LogFormat: "text", ServerURL: DefaultServerURL},
		},
		{
			name:    "unknown store",
			data:    "store: postgres\n",
			ext:     ".yaml",
			wantErr: "store must be",
		},
		{
			name:    "port out of range",
			data:    "port: 70000\n",
			ext:     ".yaml",
			wantErr: "port must be between",
		},
		{
			name:    "bad log level",
			data:    "log_level = \"loud\"\n",
			ext:     ".toml",
			wantErr: "log_level must be",
		},
		{
			name:    "bad server url",
			data:    "server_url: localhost:5000\n",
			ext:     ".yaml",
			wantErr: "server_url must be",
		},
		{
			name:    "malformed yaml",
			data:    "port: [\n",
			ext:     ".yaml",
			wantErr: "failed to parse YAML",
		},
		{
			name:    "malformed toml",
			data:    "port = \n",
			ext:     ".toml",
			wantErr: "failed to parse TOML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")

			cfg, err := Parse([]byte(tt.data), tt.ext)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *cfg != tt.want {
				t.Errorf("Parse() = %+v, want %+v", *cfg, tt.want)
			}
		})
	}
}

func TestParse_EnvOverridesFile(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := Parse([]byte("port: 9000\n"), ".yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("Port = %d, want 7070", cfg.Port)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "todos.yaml")
	if err := os.WriteFile(path, []byte("port: 6000\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 6000 {
		t.Errorf("Port = %d, want 6000", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
}

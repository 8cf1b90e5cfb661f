package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfigFile writes YAML content to a temp file and returns its path.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	// Minimal file: everything should come from defaults.
	path := writeConfigFile(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.Port != 4000 {
		t.Errorf("API.Port = %d, want 4000", cfg.API.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Media.Image.Width != 160 || cfg.Media.Image.Height != 120 {
		t.Errorf("image geometry = %dx%d, want 160x120", cfg.Media.Image.Width, cfg.Media.Image.Height)
	}
	if !cfg.Media.Image.PadShortBuffers {
		t.Error("PadShortBuffers should default to true")
	}
	if cfg.Media.MaxVideoBytes() != 100<<20 {
		t.Errorf("MaxVideoBytes = %d, want %d", cfg.Media.MaxVideoBytes(), int64(100<<20))
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
api:
  port: 9000
media:
  max_video_mb: 50
  image:
    width: 320
    height: 240
    pad_short_buffers: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.Media.MaxVideoMB != 50 {
		t.Errorf("MaxVideoMB = %d, want 50", cfg.Media.MaxVideoMB)
	}
	if cfg.Media.Image.PadShortBuffers {
		t.Error("PadShortBuffers should be false")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CREWSENSE_MEDIA_DIR", "/srv/crewsense/media")
	t.Setenv("CREWSENSE_MQTT_HOST", "broker.internal")

	path := writeConfigFile(t, "media:\n  dir: ./ignored\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Media.Dir != "/srv/crewsense/media" {
		t.Errorf("Media.Dir = %q, want env override", cfg.Media.Dir)
	}
	if cfg.MQTT.Broker.Host != "broker.internal" {
		t.Errorf("MQTT host = %q, want env override", cfg.MQTT.Broker.Host)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "bad api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "missing media dir",
			mutate:  func(c *Config) { c.Media.Dir = "" },
			wantErr: "media.dir",
		},
		{
			name:    "zero image width",
			mutate:  func(c *Config) { c.Media.Image.Width = 0 },
			wantErr: "media.image",
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

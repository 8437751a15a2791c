package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("写入配置文件失败: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("期望默认端口 3000，实际=%d", cfg.Server.Port)
	}
	if cfg.RateLimit.Limit != 10 || cfg.RateLimit.Window != 60*time.Second {
		t.Errorf("期望默认限流 10/60s，实际=%d/%s", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}
	if cfg.Dispatch.SuccessRate != 0.9 {
		t.Errorf("期望默认成功率 0.9，实际=%v", cfg.Dispatch.SuccessRate)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("配置文件中的 log.level 未生效，实际=%s", cfg.Log.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 4000\n")
	t.Setenv("NOTIFY_SERVER_PORT", "5000")
	t.Setenv("NOTIFY_DISPATCH_SUCCESS_RATE", "0.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load 应成功: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("环境变量应覆盖配置文件，期望 5000，实际=%d", cfg.Server.Port)
	}
	if cfg.Dispatch.SuccessRate != 0.5 {
		t.Errorf("期望成功率 0.5，实际=%v", cfg.Dispatch.SuccessRate)
	}
}

func TestLoad_InvalidSuccessRate(t *testing.T) {
	path := writeConfig(t, "dispatch:\n  success_rate: 1.5\n")

	if _, err := Load(path); err == nil {
		t.Fatal("success_rate 超出范围时应返回错误")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 3000},
			Database:  DatabaseConfig{Driver: "postgres"},
			RateLimit: RateLimitConfig{Enabled: true, Limit: 10, Window: time.Minute},
			Dispatch:  DispatchConfig{SuccessRate: 0.9, Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, true},
		{"sqlite without path", func(c *Config) { c.Database.Driver = "sqlite" }, true},
		{"sqlite with path", func(c *Config) { c.Database.Driver = "sqlite"; c.Database.Path = "x.db" }, false},
		{"zero limit", func(c *Config) { c.RateLimit.Limit = 0 }, true},
		{"zero limit but disabled", func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.Limit = 0 }, false},
		{"zero timeout", func(c *Config) { c.Dispatch.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

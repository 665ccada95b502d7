package goAuthClient

import (
	"strings"
	"testing"
	"time"
)

func validTestConfig() Config {
	cfg := defaultConfig()
	cfg.Endpoints.BaseURL = "https://api.example.test"
	return cfg
}

func TestConfigValidateDefaults(t *testing.T) {
	cfg := validTestConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with a base URL must validate: %v", err)
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing base url", func(c *Config) { c.Endpoints.BaseURL = "" }, "BaseURL"},
		{"relative base url", func(c *Config) { c.Endpoints.BaseURL = "api.example.test/v1" }, "absolute"},
		{"bad refresh path", func(c *Config) { c.Endpoints.RefreshPath = "token/refresh" }, "RefreshPath"},
		{"bad csrf path", func(c *Config) { c.Endpoints.CSRFPath = "csrf" }, "CSRFPath"},
		{"zero refresh timeout", func(c *Config) { c.Refresh.Timeout = 0 }, "Timeout"},
		{"negative min interval", func(c *Config) { c.Refresh.MinInterval = -time.Second }, "MinInterval"},
		{"negative expiry buffer", func(c *Config) { c.Refresh.ExpiryBuffer = -time.Second }, "ExpiryBuffer"},
		{"empty request field", func(c *Config) { c.Refresh.RequestField = "" }, "RequestField"},
		{"empty access field", func(c *Config) { c.Refresh.AccessField = "" }, "AccessField"},
		{"empty csrf header", func(c *Config) { c.CSRF.Header = "" }, "Header"},
		{"empty csrf field", func(c *Config) { c.CSRF.ResponseField = "" }, "ResponseField"},
		{"zero request timeout", func(c *Config) { c.Transport.RequestTimeout = 0 }, "RequestTimeout"},
		{"empty redis prefix", func(c *Config) { c.Credential.RedisPrefix = "" }, "RedisPrefix"},
		{"negative credential ttl", func(c *Config) { c.Credential.TTL = -time.Second }, "TTL"},
		{"audit without buffer", func(c *Config) { c.Audit.Enabled = true; c.Audit.BufferSize = 0 }, "BufferSize"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validTestConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithConfig(validTestConfig())
	if _, err := b.Build(); err != nil {
		t.Fatalf("first build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected build without base URL to fail")
	}
}

package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFeedConfig_SourceRequiresURL(t *testing.T) {
	cfg := FeedConfig{Source: FeedSourceRSS}
	if err := cfg.Validate(); err == nil {
		t.Fatal("rss source without rss_url should fail")
	}

	cfg = FeedConfig{Source: FeedSourceRSS, RSSURL: "https://aws.amazon.com/new/feed/"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("rss source with url should pass: %v", err)
	}

	cfg = FeedConfig{Source: FeedSourceAPI}
	if err := cfg.Validate(); err == nil {
		t.Fatal("api source without api_url should fail")
	}
}

func TestFeedConfig_InvalidSource(t *testing.T) {
	cfg := FeedConfig{Source: "carrier-pigeon"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown source should fail validation")
	}
}

func TestFeedConfig_Schedule(t *testing.T) {
	cfg := FeedConfig{Schedule: "@hourly"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("@hourly should be a valid schedule: %v", err)
	}

	cfg = FeedConfig{Schedule: "not a cron spec"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("bad schedule should fail validation")
	}
}

func TestFeedConfig_TimeoutDefault(t *testing.T) {
	cfg := FeedConfig{}
	if got := cfg.Timeout(); got != 15*time.Second {
		t.Errorf("default Timeout = %v, want 15s", got)
	}
	cfg.TimeoutSeconds = 30
	if got := cfg.Timeout(); got != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", got)
	}
}

func TestSiteConfig_RequiresBaseURL(t *testing.T) {
	cfg := SiteConfig{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing base_url should fail")
	}
	cfg = SiteConfig{BaseURL: "https://acloudresume.com", PageSize: 12}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid site config should pass: %v", err)
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if !cfg.Feed.ClampFuture {
		t.Error("future clamp should default on")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

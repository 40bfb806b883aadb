package internal

import (
	"strings"
	"testing"
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

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
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

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestDataConfig_Owner(t *testing.T) {
	for _, owner := range []string{"alice", "Bob_2", "team-a"} {
		cfg := DataConfig{Path: "./data", Owner: owner}
		if err := cfg.Validate(); err != nil {
			t.Errorf("owner %q should pass: %v", owner, err)
		}
	}
	for _, owner := range []string{"", "../etc", "a b", "x/y"} {
		cfg := DataConfig{Path: "./data", Owner: owner}
		if err := cfg.Validate(); err == nil {
			t.Errorf("owner %q should fail", owner)
		}
	}
}

func TestSQLiteConfig_PathRequiredWhenEnabled(t *testing.T) {
	if err := (&SQLiteConfig{Enabled: true}).Validate(); err == nil {
		t.Error("enabled index without path should fail")
	}
	if err := (&SQLiteConfig{}).Validate(); err != nil {
		t.Errorf("disabled index without path should pass: %v", err)
	}
}

func TestFullConfig_ProfileValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Profile.ActivityLevel = "couch"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "profile") {
		t.Fatalf("err = %v, want profile error", err)
	}
}

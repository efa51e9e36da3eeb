package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)

	if c.AppPort != "8080" {
		t.Errorf("AppPort = %q, want 8080", c.AppPort)
	}
	if c.TokenTTLHours != 72 {
		t.Errorf("TokenTTLHours = %d, want 72", c.TokenTTLHours)
	}
	if !c.NotifyOnDownvote {
		t.Error("NotifyOnDownvote should default to true")
	}
	if !c.NotifyOnVoteChange {
		t.Error("NotifyOnVoteChange should default to true")
	}
	if len(c.AllowedOrigins) != 1 || c.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", c.AllowedOrigins)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	c := AppConfig{AppPort: "9000", TokenTTLHours: 1}
	applyDefaults(&c)

	if c.AppPort != "9000" {
		t.Errorf("AppPort = %q, want 9000", c.AppPort)
	}
	if c.TokenTTLHours != 1 {
		t.Errorf("TokenTTLHours = %d, want 1", c.TokenTTLHours)
	}
}

func TestParseBool(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "yes", "on"} {
		if !parseBool(v) {
			t.Errorf("parseBool(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"", "0", "false", "off", "no"} {
		if parseBool(v) {
			t.Errorf("parseBool(%q) = true, want false", v)
		}
	}
}

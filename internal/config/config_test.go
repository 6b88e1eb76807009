package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATS_SUBJECT", "")
	t.Setenv("DOCINTEL_POLL_INTERVAL_MS", "")
	t.Setenv("API_RATE_LIMIT_RPS", "")
	t.Setenv("API_MAX_CONNS", "")

	cfg := Load()
	if cfg.NATSSubject != "ingestions.received" {
		t.Fatalf("expected default nats subject, got %q", cfg.NATSSubject)
	}
	if cfg.DocIntelPollIntervalMS != 2000 {
		t.Fatalf("expected default poll interval 2000, got %d", cfg.DocIntelPollIntervalMS)
	}
	if cfg.APIRateLimitRPS != 20 {
		t.Fatalf("expected default rate limit 20, got %d", cfg.APIRateLimitRPS)
	}
	if cfg.APIMaxConns != 256 {
		t.Fatalf("expected default max conns 256, got %d", cfg.APIMaxConns)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("DOCINTEL_URL", "http://docintel.internal:5000")
	t.Setenv("DOCINTEL_POLL_INTERVAL_MS", "500")
	t.Setenv("API_RATE_LIMIT_RPS", "5")
	t.Setenv("RULESET_PATH", "/etc/formflow/rules.yaml")

	cfg := Load()
	if cfg.DocIntelURL != "http://docintel.internal:5000" {
		t.Fatalf("expected docintel url override, got %q", cfg.DocIntelURL)
	}
	if cfg.DocIntelPollIntervalMS != 500 {
		t.Fatalf("expected poll interval 500, got %d", cfg.DocIntelPollIntervalMS)
	}
	if cfg.APIRateLimitRPS != 5 {
		t.Fatalf("expected rate limit 5, got %d", cfg.APIRateLimitRPS)
	}
	if cfg.RulesetPath != "/etc/formflow/rules.yaml" {
		t.Fatalf("expected ruleset path override, got %q", cfg.RulesetPath)
	}
}

func TestLoadFallsBackOnBadInt(t *testing.T) {
	t.Setenv("API_RATE_LIMIT_BURST", "not-a-number")
	if cfg := Load(); cfg.APIRateLimitBurst != 40 {
		t.Fatalf("expected fallback burst 40, got %d", cfg.APIRateLimitBurst)
	}
}

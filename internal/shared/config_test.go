package shared

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("CACHE_TTL_SECONDS", "")
	t.Setenv("BOOKING_OVERLAP_POLICY", "")
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q", c.HTTPAddr)
	}
	if c.CacheTTL != 300*time.Second {
		t.Fatalf("CacheTTL = %v", c.CacheTTL)
	}
	if c.OverlapPolicy != "allow" {
		t.Fatalf("OverlapPolicy = %q", c.OverlapPolicy)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "bot@palm.test")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("ADMIN_TOKEN_TTL_MINUTES", "15")
	t.Setenv("IMPORT_WORKERS", "not-a-number")
	c := Load()
	if c.SMTPPort != 2525 {
		t.Fatalf("SMTPPort = %d", c.SMTPPort)
	}
	if c.MailFrom != "bot@palm.test" {
		t.Fatalf("MailFrom should fall back to SMTP user, got %q", c.MailFrom)
	}
	if c.TokenTTL != 15*time.Minute {
		t.Fatalf("TokenTTL = %v", c.TokenTTL)
	}
	if c.ImportWorkers != 4 {
		t.Fatalf("ImportWorkers = %d", c.ImportWorkers)
	}
}

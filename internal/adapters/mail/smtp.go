package mail

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"palmnazi/internal/adapters/observability"
	"palmnazi/internal/domain"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	RPS      int
}

// SMTPMailer sends HTML mail over SMTP with PLAIN auth (STARTTLS when offered).
type SMTPMailer struct {
	cfg  SMTPConfig
	rl   *rate.Limiter
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("sender address is required")
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 5
	}
	return &SMTPMailer{
		cfg:  cfg,
		rl:   rate.NewLimiter(rate.Limit(cfg.RPS), cfg.RPS),
		send: smtp.SendMail,
	}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, e domain.Email) error {
	if err := m.rl.Wait(ctx); err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	start := time.Now()
	err := m.send(addr, auth, m.cfg.From, []string{e.To}, buildMessage(m.cfg, e))
	observability.ObserveExternal("smtp", "send", observability.StatusOf(err), time.Since(start))
	if err != nil {
		return fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	log.Info().Str("to", e.To).Str("subject", e.Subject).Msg("email sent")
	return nil
}

func buildMessage(cfg SMTPConfig, e domain.Email) []byte {
	clean := func(s string) string { return strings.NewReplacer("\r", " ", "\n", " ").Replace(strings.TrimSpace(s)) }

	from := cfg.From
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", clean(cfg.FromName)), cfg.From)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", clean(e.To))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", clean(e.Subject)))
	fmt.Fprintf(&sb, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))

	keys := make([]string, 0, len(e.Headers))
	for k := range e.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := clean(e.Headers[k]); v != "" {
			fmt.Fprintf(&sb, "%s: %s\r\n", clean(k), v)
		}
	}
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(e.HTML)
	sb.WriteString("\r\n")
	return []byte(sb.String())
}

// LogMailer stands in when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, e domain.Email) error {
	log.Warn().Str("to", e.To).Str("subject", e.Subject).Int("bytes", len(e.HTML)).Msg("[MOCK EMAIL] smtp not configured")
	return nil
}

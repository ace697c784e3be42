package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"palmnazi/internal/domain"
)

func fixture() (domain.Booking, domain.Property) {
	b := domain.Booking{
		ID:         "b-1",
		Name:       "Jane <script>",
		Email:      "jane@example.com",
		FromDate:   time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC),
		People:     2,
		RoomType:   "Deluxe",
		PropertyID: "p-1",
	}
	p := domain.Property{ID: "p-1", Name: "Palm Lodge", Email: "owner@palm.test"}
	return b, p
}

func TestRenderer_GuestConfirmation(t *testing.T) {
	r, err := NewRenderer(Footer{Phone: "+254 700", Email: "hello@palm.test"})
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	b, p := fixture()
	e, err := r.GuestConfirmation(b, p, "004217")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if e.To != "jane@example.com" || e.Subject != SubjectGuest {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	for _, want := range []string{"#004217", "Wednesday, July 1, 2026", "Total Nights:</strong> 3", "Jane &lt;script&gt;", "+254 700"} {
		if !strings.Contains(e.HTML, want) {
			t.Fatalf("expected %q in body", want)
		}
	}
}

func TestRenderer_OwnerAlert(t *testing.T) {
	r, _ := NewRenderer(Footer{})
	b, p := fixture()
	e, err := r.OwnerAlert(b, p, time.Date(2026, time.June, 1, 9, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if e.To != "owner@palm.test" || e.Subject != SubjectOwner {
		t.Fatalf("unexpected envelope: %+v", e)
	}
	if e.Headers["Reply-To"] != "jane@example.com" {
		t.Fatalf("reply-to header missing")
	}
	if !strings.Contains(e.HTML, "Booking ID:</strong> b-1") {
		t.Fatalf("expected booking id in body")
	}
}

func TestSMTPMailer_Send(t *testing.T) {
	m, err := NewSMTP(SMTPConfig{Host: "smtp.test", Port: 2525, Username: "bot", Password: "pw", From: "bot@palm.test", FromName: "Palm", RPS: 100})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	err = m.Send(context.Background(), domain.Email{To: "guest@x.io", Subject: "Hi\r\nBcc: evil@x.io", HTML: "<p>ok</p>", Headers: map[string]string{"X-Booking-ID": "b-9"}})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAddr != "smtp.test:2525" || len(gotTo) != 1 || gotTo[0] != "guest@x.io" {
		t.Fatalf("unexpected envelope %s %v", gotAddr, gotTo)
	}
	if strings.Contains(gotMsg, "\r\nBcc:") {
		t.Fatalf("header injection not neutralised:\n%s", gotMsg)
	}
	if !strings.Contains(gotMsg, "X-Booking-ID: b-9\r\n") || !strings.Contains(gotMsg, "text/html") {
		t.Fatalf("unexpected message:\n%s", gotMsg)
	}
}

func TestSMTPMailer_SendError(t *testing.T) {
	m, _ := NewSMTP(SMTPConfig{Host: "smtp.test", Port: 25, From: "bot@palm.test"})
	boom := errors.New("connection refused")
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return boom }

	if err := m.Send(context.Background(), domain.Email{To: "a@b.c"}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestNewSMTP_RequiresHost(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{From: "x@y.z"}); err == nil {
		t.Fatalf("expected error")
	}
}

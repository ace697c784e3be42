package mail

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"palmnazi/internal/domain"
)

const (
	SubjectGuest = "Your Booking Confirmation"
	SubjectOwner = "New Booking Alert"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"longDate": func(t time.Time) string { return t.Format("Monday, January 2, 2006") },
	"stamp":    func(t time.Time) string { return t.Format("Jan 2, 2006 15:04 MST") },
}

// Footer is the contact block printed under the guest confirmation.
type Footer struct {
	Phone   string
	Email   string
	Address string
}

// Renderer builds the two booking notifications.
type Renderer struct {
	tpl    *template.Template
	footer Footer
}

func NewRenderer(f Footer) (*Renderer, error) {
	tpl, err := template.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl, footer: f}, nil
}

type view struct {
	Booking       domain.Booking
	Property      domain.Property
	ReservationNo string
	At            time.Time
	Footer        Footer
}

func (r *Renderer) GuestConfirmation(b domain.Booking, p domain.Property, reservationNo string) (domain.Email, error) {
	html, err := r.render("guest_confirmation.html", view{Booking: b, Property: p, ReservationNo: reservationNo, Footer: r.footer})
	if err != nil {
		return domain.Email{}, err
	}
	return domain.Email{
		To:      b.Email,
		Subject: SubjectGuest,
		HTML:    html,
		Headers: map[string]string{"X-Booking-ID": b.ID},
	}, nil
}

func (r *Renderer) OwnerAlert(b domain.Booking, p domain.Property, at time.Time) (domain.Email, error) {
	html, err := r.render("owner_alert.html", view{Booking: b, Property: p, At: at, Footer: r.footer})
	if err != nil {
		return domain.Email{}, err
	}
	return domain.Email{
		To:      p.Email,
		Subject: SubjectOwner,
		HTML:    html,
		Headers: map[string]string{"X-Booking-ID": b.ID, "Reply-To": b.Email},
	}, nil
}

func (r *Renderer) render(name string, v view) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

type Booking struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	FromDate   time.Time `json:"fromDate"`
	EndDate    time.Time `json:"endDate"`
	People     int       `json:"people"`
	RoomType   string    `json:"roomType,omitempty"`
	PropertyID string    `json:"propertyId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Nights counts started days between check-in and check-out.
func (b Booking) Nights() int {
	d := b.EndDate.Sub(b.FromDate)
	if d <= 0 {
		return 0
	}
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}

// Overlaps reports whether the half-open stays [from,end) intersect.
func (b Booking) Overlaps(from, end time.Time) bool {
	return b.FromDate.Before(end) && from.Before(b.EndDate)
}

// BookingRequest is the payload accepted from the public booking form.
type BookingRequest struct {
	ID         string    `json:"id,omitempty"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	FromDate   string    `json:"fromDate"`
	EndDate    string    `json:"endDate"`
	People     PartySize `json:"people"`
	RoomType   string    `json:"roomType,omitempty"`
	PropertyID string    `json:"propertyId"`
}

// PartySize accepts both 3 and "3"; form widgets post either.
type PartySize int

func (p *PartySize) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		var f float64
		if ferr := json.Unmarshal([]byte(s), &f); ferr != nil {
			return Invalid("people must be a number")
		}
		n = int(f)
	}
	*p = PartySize(n)
	return nil
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Invalid("invalid date " + strconv.Quote(s))
}

// Normalize validates the request and converts it into a Booking without
// identity or timestamps.
func (r BookingRequest) Normalize() (Booking, error) {
	name := strings.TrimSpace(r.Name)
	email := strings.TrimSpace(r.Email)
	pid := strings.TrimSpace(r.PropertyID)
	switch {
	case name == "":
		return Booking{}, Invalid("name is required")
	case email == "":
		return Booking{}, Invalid("email is required")
	case !strings.Contains(email, "@"):
		return Booking{}, Invalid("email is invalid")
	case strings.TrimSpace(r.FromDate) == "":
		return Booking{}, Invalid("fromDate is required")
	case strings.TrimSpace(r.EndDate) == "":
		return Booking{}, Invalid("endDate is required")
	case pid == "":
		return Booking{}, Invalid("propertyId is required")
	case r.People < 1:
		return Booking{}, Invalid("people must be a positive integer")
	}
	from, err := ParseDate(r.FromDate)
	if err != nil {
		return Booking{}, err
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return Booking{}, err
	}
	if end.Before(from) {
		return Booking{}, Invalid("endDate must not be before fromDate")
	}
	return Booking{
		ID:         strings.TrimSpace(r.ID),
		Name:       name,
		Email:      email,
		FromDate:   from,
		EndDate:    end,
		People:     int(r.People),
		RoomType:   strings.TrimSpace(r.RoomType),
		PropertyID: pid,
	}, nil
}

// OverlapPolicy decides what happens to bookings whose stay intersects an
// existing one for the same property and room type.
type OverlapPolicy string

const (
	OverlapAllow  OverlapPolicy = "allow"
	OverlapReject OverlapPolicy = "reject"
)

func ParseOverlapPolicy(s string) OverlapPolicy {
	if strings.EqualFold(strings.TrimSpace(s), string(OverlapReject)) {
		return OverlapReject
	}
	return OverlapAllow
}

package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"palmnazi/internal/domain"
)

// ---- fakes ----

type fakeProps struct {
	mu    sync.Mutex
	items map[string]domain.Property
	gets  int
	err   error
}

func newFakeProps(ps ...domain.Property) *fakeProps {
	f := &fakeProps{items: map[string]domain.Property{}}
	for _, p := range ps {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProps) CreateProperty(ctx context.Context, p domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.items[p.ID] = p
	return nil
}
func (f *fakeProps) UpdateProperty(ctx context.Context, p domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[p.ID]; !ok {
		return domain.ErrNotFound
	}
	f.items[p.ID] = p
	return nil
}
func (f *fakeProps) DeleteProperty(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.items, id)
	return nil
}
func (f *fakeProps) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.err != nil {
		return domain.Property{}, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeProps) ListProperties(ctx context.Context) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Property, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

type fakeBookings struct {
	mu        sync.Mutex
	items     []domain.Booking
	createErr error
	log       *[]string
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insert(b)
}

// CreateBookingIfFree holds the lock across check and insert, like the row lock in MySQL.
func (f *fakeBookings) CreateBookingIfFree(ctx context.Context, b domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, other := range f.items {
		if other.PropertyID == b.PropertyID && other.RoomType == b.RoomType && other.Overlaps(b.FromDate, b.EndDate) {
			return domain.ErrConflict
		}
	}
	return f.insert(b)
}

func (f *fakeBookings) insert(b domain.Booking) error {
	if f.log != nil {
		*f.log = append(*f.log, "store")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, b)
	return nil
}
func (f *fakeBookings) UpdateBooking(ctx context.Context, b domain.Booking) error {
	for i := range f.items {
		if f.items[i].ID == b.ID {
			f.items[i] = b
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeBookings) DeleteBooking(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeBookings) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	for _, b := range f.items {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Booking{}, domain.ErrNotFound
}
func (f *fakeBookings) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return append([]domain.Booking(nil), f.items...), nil
}

type fakeNotify struct{}

func (fakeNotify) GuestConfirmation(b domain.Booking, p domain.Property, resNo string) (domain.Email, error) {
	return domain.Email{To: b.Email, Subject: "Your Booking Confirmation", HTML: "#" + resNo}, nil
}
func (fakeNotify) OwnerAlert(b domain.Booking, p domain.Property, at time.Time) (domain.Email, error) {
	return domain.Email{To: p.Email, Subject: "New Booking Alert", HTML: at.Format(time.RFC3339)}, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []domain.Email
	failOn string // subject that fails
	log    *[]string
}

func (m *fakeMailer) Send(ctx context.Context, e domain.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.log != nil {
		*m.log = append(*m.log, "mail:"+e.To)
	}
	if m.failOn != "" && e.Subject == m.failOn {
		return errors.New("smtp: 421 service not available")
	}
	m.sent = append(m.sent, e)
	return nil
}

type fakeEvents struct {
	got []domain.BookingEvent
	err error
}

func (f *fakeEvents) PublishBookingCreated(ctx context.Context, ev domain.BookingEvent) error {
	f.got = append(f.got, ev)
	return f.err
}

// fakeCache stores JSON like the Redis adapter, so cached values are real copies.
type fakeCache struct {
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.dels = append(c.dels, key)
	delete(c.store, key)
	return nil
}

type fakeContent struct {
	items []domain.Content
}

func (f *fakeContent) CreateContent(ctx context.Context, c domain.Content) error {
	f.items = append(f.items, c)
	return nil
}
func (f *fakeContent) UpdateContent(ctx context.Context, c domain.Content) error {
	for i := range f.items {
		if f.items[i].ID == c.ID {
			f.items[i] = c
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeContent) DeleteContent(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeContent) ListContent(ctx context.Context) ([]domain.Content, error) {
	return append([]domain.Content(nil), f.items...), nil
}

type fakeTestimonials struct {
	items []domain.Testimonial
}

func (f *fakeTestimonials) CreateTestimonial(ctx context.Context, t domain.Testimonial) error {
	f.items = append(f.items, t)
	return nil
}
func (f *fakeTestimonials) DeleteTestimonial(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}
func (f *fakeTestimonials) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	return append([]domain.Testimonial(nil), f.items...), nil
}

type fakeGeo struct {
	addr  string
	err   error
	calls int
}

func (g *fakeGeo) Reverse(ctx context.Context, lat, lng float64) (string, error) {
	g.calls++
	return g.addr, g.err
}

type fakeBlobs struct {
	keys []string
}

func (b *fakeBlobs) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	b.keys = append(b.keys, key)
	return "https://cdn.test/" + key, nil
}

package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"palmnazi/internal/domain"
)

const (
	tableProperties   = "properties"
	tableBookings     = "bookings"
	tableTestimonials = "testimonials"
	tableContents     = "contents"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// valJSON encodes an embedded list; nil slices are stored as [] so reads stay uniform.
func valJSON[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func scanJSON[T any](raw []byte, dst *[]T) error {
	if len(raw) == 0 {
		*dst = []T{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// Repo is the MySQL implementation of every repository port.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// affected turns "zero rows touched" into ErrNotFound, double checking with a
// lookup because MySQL reports unchanged rows as not affected.
func (r *Repo) affected(ctx context.Context, res sql.Result, table, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var one int
	err = r.db.QueryRowContext(ctx, fmt.Sprintf(existsByIDSQL, table), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *Repo) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(deleteByIDSQL, table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

/********** properties **********/

func propertyArgs(p domain.Property) ([]any, error) {
	locs, err := valJSON(p.Locations)
	if err != nil {
		return nil, err
	}
	imgs, err := valJSON(p.ImageURLs)
	if err != nil {
		return nil, err
	}
	rooms, err := valJSON(p.Rooms)
	if err != nil {
		return nil, err
	}
	return []any{p.Name, p.Email, p.Phone, valStr(p.Description), locs, imgs, rooms}, nil
}

func (r *Repo) CreateProperty(ctx context.Context, p domain.Property) error {
	args, err := propertyArgs(p)
	if err != nil {
		return err
	}
	args = append([]any{p.ID}, args...)
	args = append(args, p.CreatedAt, p.UpdatedAt)
	_, err = r.db.ExecContext(ctx, insertPropertySQL, args...)
	return err
}

func (r *Repo) UpdateProperty(ctx context.Context, p domain.Property) error {
	args, err := propertyArgs(p)
	if err != nil {
		return err
	}
	args = append(args, p.UpdatedAt, p.ID)
	res, err := r.db.ExecContext(ctx, updatePropertySQL, args...)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, tableProperties, p.ID)
}

func (r *Repo) DeleteProperty(ctx context.Context, id string) error {
	return r.deleteByID(ctx, tableProperties, id)
}

func scanProperty(s rowScanner) (domain.Property, error) {
	var p domain.Property
	var desc sql.NullString
	var locs, imgs, rooms []byte
	if err := s.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &desc, &locs, &imgs, &rooms, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return domain.Property{}, err
	}
	p.Description = desc.String
	if err := scanJSON(locs, &p.Locations); err != nil {
		return domain.Property{}, fmt.Errorf("decode locations of %s: %w", p.ID, err)
	}
	if err := scanJSON(imgs, &p.ImageURLs); err != nil {
		return domain.Property{}, fmt.Errorf("decode image_urls of %s: %w", p.ID, err)
	}
	if err := scanJSON(rooms, &p.Rooms); err != nil {
		return domain.Property{}, fmt.Errorf("decode rooms of %s: %w", p.ID, err)
	}
	return p, nil
}

func (r *Repo) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	p, err := scanProperty(r.db.QueryRowContext(ctx, getPropertySQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, listPropertiesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

/********** bookings **********/

func bookingArgs(b domain.Booking) []any {
	return []any{b.ID, b.Name, b.Email, b.FromDate, b.EndDate, b.People, b.RoomType, b.PropertyID, b.CreatedAt, b.UpdatedAt}
}

func (r *Repo) CreateBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL, bookingArgs(b)...)
	return err
}

// CreateBookingIfFree serializes bookings per property with a row lock on the
// property, then inserts only when no stay for the same room intersects b.
func (r *Repo) CreateBookingIfFree(ctx context.Context, b domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after Commit

	var id string
	if err := tx.QueryRowContext(ctx, lockPropertySQL, b.PropertyID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	stays, err := queryBookings(ctx, tx, listStaysLockedSQL, b.PropertyID, b.RoomType, b.EndDate, b.FromDate)
	if err != nil {
		return err
	}
	if len(stays) > 0 {
		return fmt.Errorf("stay overlaps booking %s: %w", stays[0].ID, domain.ErrConflict)
	}
	if _, err := tx.ExecContext(ctx, insertBookingSQL, bookingArgs(b)...); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) UpdateBooking(ctx context.Context, b domain.Booking) error {
	res, err := r.db.ExecContext(ctx, updateBookingSQL,
		b.Name, b.Email, b.FromDate, b.EndDate, b.People, b.RoomType, b.PropertyID, b.UpdatedAt, b.ID)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, tableBookings, b.ID)
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	return r.deleteByID(ctx, tableBookings, id)
}

func scanBooking(s rowScanner) (domain.Booking, error) {
	var b domain.Booking
	err := s.Scan(&b.ID, &b.Name, &b.Email, &b.FromDate, &b.EndDate, &b.People, &b.RoomType, &b.PropertyID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return queryBookings(ctx, r.db, listBookingsSQL)
}

// ListStays returns bookings for a property/room whose stay intersects [from,end).
func (r *Repo) ListStays(ctx context.Context, propertyID, roomType string, from, end time.Time) ([]domain.Booking, error) {
	return queryBookings(ctx, r.db, listStaysSQL, propertyID, roomType, end, from)
}

func queryBookings(ctx context.Context, db querier, q string, args ...any) ([]domain.Booking, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

/********** testimonials **********/

func (r *Repo) CreateTestimonial(ctx context.Context, t domain.Testimonial) error {
	_, err := r.db.ExecContext(ctx, insertTestimonialSQL, t.ID, t.Name, t.Email, t.Message, t.Rating, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *Repo) DeleteTestimonial(ctx context.Context, id string) error {
	return r.deleteByID(ctx, tableTestimonials, id)
}

func (r *Repo) ListTestimonials(ctx context.Context) ([]domain.Testimonial, error) {
	rows, err := r.db.QueryContext(ctx, listTestimonialsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Testimonial{}
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Message, &t.Rating, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

/********** content **********/

func (r *Repo) CreateContent(ctx context.Context, c domain.Content) error {
	_, err := r.db.ExecContext(ctx, insertContentSQL, c.ID, c.Header, c.Subheader, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *Repo) UpdateContent(ctx context.Context, c domain.Content) error {
	res, err := r.db.ExecContext(ctx, updateContentSQL, c.Header, c.Subheader, c.UpdatedAt, c.ID)
	if err != nil {
		return err
	}
	return r.affected(ctx, res, tableContents, c.ID)
}

func (r *Repo) DeleteContent(ctx context.Context, id string) error {
	return r.deleteByID(ctx, tableContents, id)
}

func (r *Repo) ListContent(ctx context.Context) ([]domain.Content, error) {
	rows, err := r.db.QueryContext(ctx, listContentSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Content{}
	for rows.Next() {
		var c domain.Content
		if err := rows.Scan(&c.ID, &c.Header, &c.Subheader, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var (
	_ domain.PropertyRepository    = (*Repo)(nil)
	_ domain.BookingRepository     = (*Repo)(nil)
	_ domain.TestimonialRepository = (*Repo)(nil)
	_ domain.ContentRepository     = (*Repo)(nil)
)

package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"palmnazi/internal/domain"
)

type BookingService struct {
	props    domain.PropertyRepository
	bookings domain.BookingRepository
	notify   domain.Notifications
	mailer   domain.Mailer
	events   domain.EventPublisher
	policy   domain.OverlapPolicy

	now   func() time.Time
	newID func() string
	resNo func() string
}

type BookingOption func(*BookingService)

func WithBookingClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

func WithBookingIDs(newID func() string) BookingOption {
	return func(s *BookingService) { s.newID = newID }
}

func WithReservationNumbers(f func() string) BookingOption {
	return func(s *BookingService) { s.resNo = f }
}

func NewBookingService(
	props domain.PropertyRepository,
	bookings domain.BookingRepository,
	notify domain.Notifications,
	mailer domain.Mailer,
	events domain.EventPublisher,
	policy domain.OverlapPolicy,
	opts ...BookingOption,
) *BookingService {
	s := &BookingService{
		props: props, bookings: bookings, notify: notify, mailer: mailer, events: events, policy: policy,
		now:   time.Now,
		newID: uuid.NewString,
		resNo: reservationNumber,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// reservationNumber is display-only and never stored.
func reservationNumber() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}

// Create runs the intake pipeline: validate, resolve the property, apply the
// overlap policy, persist, then notify guest and owner in that order.
//
// A notification failure returns the saved booking together with an error
// wrapping domain.ErrDispatch; the booking is not rolled back.
func (s *BookingService) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	b, err := req.Normalize()
	if err != nil {
		return domain.Booking{}, err
	}

	p, err := s.props.GetProperty(ctx, b.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Booking{}, fmt.Errorf("property not found: %w", domain.ErrNotFound)
		}
		return domain.Booking{}, storeErr("load property", err)
	}
	if b.RoomType != "" {
		room, ok := p.FindRoom(b.RoomType)
		if !ok {
			return domain.Booking{}, domain.Invalid(fmt.Sprintf("roomType %q is not offered by this property", b.RoomType))
		}
		b.RoomType = room.Label
	}

	now := s.now().UTC()
	b.ID = s.newID()
	b.CreatedAt, b.UpdatedAt = now, now
	if err := s.store(ctx, b); err != nil {
		return domain.Booking{}, err
	}
	log.Info().Str("booking_id", b.ID).Str("property_id", p.ID).Msg("booking stored")

	if err := s.dispatch(ctx, b, p, now); err != nil {
		log.Error().Err(err).Str("booking_id", b.ID).Msg("booking notifications failed")
		return b, err
	}

	s.publish(ctx, b)
	return b, nil
}

// store applies the overlap policy. Under OverlapReject the clash check and
// the insert happen in one repository call so concurrent requests cannot both win.
func (s *BookingService) store(ctx context.Context, b domain.Booking) error {
	if s.policy != domain.OverlapReject {
		if err := s.bookings.CreateBooking(ctx, b); err != nil {
			return storeErr("save booking", err)
		}
		return nil
	}
	err := s.bookings.CreateBookingIfFree(ctx, b)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrConflict):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("property not found: %w", domain.ErrNotFound)
	}
	return storeErr("save booking", err)
}

// dispatch sends the guest confirmation, then the owner alert. The owner is
// not notified when the guest send fails.
func (s *BookingService) dispatch(ctx context.Context, b domain.Booking, p domain.Property, at time.Time) error {
	guest, err := s.notify.GuestConfirmation(b, p, s.resNo())
	if err != nil {
		return fmt.Errorf("%w: render guest confirmation: %w", domain.ErrDispatch, err)
	}
	if err := s.mailer.Send(ctx, guest); err != nil {
		return fmt.Errorf("%w: guest confirmation: %w", domain.ErrDispatch, err)
	}

	owner, err := s.notify.OwnerAlert(b, p, at)
	if err != nil {
		return fmt.Errorf("%w: render owner alert: %w", domain.ErrDispatch, err)
	}
	if err := s.mailer.Send(ctx, owner); err != nil {
		return fmt.Errorf("%w: owner alert: %w", domain.ErrDispatch, err)
	}
	return nil
}

func (s *BookingService) publish(ctx context.Context, b domain.Booking) {
	if s.events == nil {
		return
	}
	ev := domain.BookingEvent{
		BookingID:  b.ID,
		PropertyID: b.PropertyID,
		RoomType:   b.RoomType,
		FromDate:   b.FromDate,
		EndDate:    b.EndDate,
		People:     b.People,
		CreatedAt:  b.CreatedAt,
	}
	if err := s.events.PublishBookingCreated(ctx, ev); err != nil {
		log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking event not published")
	}
}

// Update replaces the editable fields of an existing booking.
func (s *BookingService) Update(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	if req.ID == "" {
		return domain.Booking{}, domain.Invalid("id is required")
	}
	b, err := req.Normalize()
	if err != nil {
		return domain.Booking{}, err
	}
	cur, err := s.bookings.GetBooking(ctx, b.ID)
	if err != nil {
		return domain.Booking{}, storeErr("load booking", err)
	}
	b.CreatedAt = cur.CreatedAt
	b.UpdatedAt = s.now().UTC()
	if err := s.bookings.UpdateBooking(ctx, b); err != nil {
		return domain.Booking{}, storeErr("update booking", err)
	}
	return b, nil
}

func (s *BookingService) Delete(ctx context.Context, id string) error {
	if err := s.bookings.DeleteBooking(ctx, id); err != nil {
		return storeErr("delete booking", err)
	}
	return nil
}

func (s *BookingService) Get(ctx context.Context, id string) (domain.Booking, error) {
	b, err := s.bookings.GetBooking(ctx, id)
	if err != nil {
		return domain.Booking{}, storeErr("load booking", err)
	}
	return b, nil
}

func (s *BookingService) List(ctx context.Context) ([]domain.Booking, error) {
	bs, err := s.bookings.ListBookings(ctx)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return bs, nil
}

type BookingView struct {
	Items []domain.Booking    `json:"items"`
	Stats domain.BookingStats `json:"stats"`
}

// View filters the list for the admin table; stats always cover every booking.
func (s *BookingService) View(ctx context.Context, f domain.BookingFilter) (BookingView, error) {
	all, err := s.List(ctx)
	if err != nil {
		return BookingView{}, err
	}
	now := s.now()
	return BookingView{
		Items: domain.FilterBookings(all, f, now),
		Stats: domain.SummarizeBookings(all, now),
	}, nil
}

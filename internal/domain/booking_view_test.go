package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palmnazi/internal/domain"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

func sample(now time.Time) []domain.Booking {
	return []domain.Booking{
		{ID: "a", Name: "Alice", Email: "alice@example.com", PropertyID: "p-1", People: 2, FromDate: now.AddDate(0, 0, -3)},
		{ID: "b", Name: "Bob", Email: "bob@example.com", PropertyID: "p-2", People: 4, FromDate: now.AddDate(0, 0, -40), RoomType: "Deluxe"},
		{ID: "c", Name: "Carol", Email: "carol@mail.test", PropertyID: "p-1", People: 6, FromDate: now.AddDate(0, 0, 5), RoomType: "Deluxe"},
	}
}

func ids(bs []domain.Booking) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestFilterBookings_Week(t *testing.T) {
	now := day(2026, time.June, 15)
	got := domain.FilterBookings(sample(now)[:2], domain.BookingFilter{Range: domain.RangeWeek}, now)
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestFilterBookings_MonthKeepsFirstOfMonthOnThe31st(t *testing.T) {
	now := day(2026, time.March, 31)
	in := []domain.Booking{
		{ID: "first", FromDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "end-feb", FromDate: time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
		{ID: "mid-feb", FromDate: time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)},
	}
	got := domain.FilterBookings(in, domain.BookingFilter{Range: domain.RangeMonth}, now)
	assert.Equal(t, []string{"first", "end-feb"}, ids(got))
}

func TestFilterBookings_MonthWithinBoundary(t *testing.T) {
	now := day(2026, time.June, 20)
	in := []domain.Booking{
		{ID: "recent", FromDate: now.AddDate(0, 0, -3)},
		{ID: "old", FromDate: now.AddDate(0, 0, -40)},
		{ID: "edge", FromDate: time.Date(2026, time.May, 20, 0, 0, 0, 0, time.UTC)},
	}
	got := domain.FilterBookings(in, domain.BookingFilter{Range: domain.RangeMonth}, now)
	assert.Equal(t, []string{"recent", "edge"}, ids(got))
}

func TestFilterBookings_SearchIsCaseInsensitive(t *testing.T) {
	now := day(2026, time.June, 15)
	in := sample(now)

	assert.Equal(t, []string{"a"}, ids(domain.FilterBookings(in, domain.BookingFilter{Search: "ALICE"}, now)))
	assert.Equal(t, []string{"c"}, ids(domain.FilterBookings(in, domain.BookingFilter{Search: "mail.test"}, now)))
	assert.Equal(t, []string{"a", "c"}, ids(domain.FilterBookings(in, domain.BookingFilter{Search: "P-1"}, now)))
}

func TestFilterBookings_ComposesInEitherOrder(t *testing.T) {
	now := day(2026, time.June, 15)
	in := sample(now)
	byRange := domain.BookingFilter{Range: domain.RangeWeek}
	byTerm := domain.BookingFilter{Search: "p-1"}

	rangeFirst := domain.FilterBookings(domain.FilterBookings(in, byRange, now), byTerm, now)
	termFirst := domain.FilterBookings(domain.FilterBookings(in, byTerm, now), byRange, now)
	both := domain.FilterBookings(in, domain.BookingFilter{Search: "p-1", Range: domain.RangeWeek}, now)

	assert.Equal(t, ids(rangeFirst), ids(termFirst))
	assert.Equal(t, ids(both), ids(termFirst))

	again := domain.FilterBookings(both, domain.BookingFilter{Search: "p-1", Range: domain.RangeWeek}, now)
	assert.Equal(t, ids(both), ids(again))
}

func TestSummarizeBookings(t *testing.T) {
	now := day(2026, time.June, 15)
	st := domain.SummarizeBookings(sample(now), now)

	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 1, st.Upcoming)
	assert.InDelta(t, 4.0, st.AverageParty, 1e-9)
	assert.Equal(t, 2, st.ByRoomType["Deluxe"])
	assert.Equal(t, 1, st.ByRoomType["Unknown"])
	require.Len(t, st.ByMonth, 12)
	assert.Equal(t, "Jun", st.ByMonth[5].Month)
	assert.Equal(t, 2, st.ByMonth[5].Bookings)
}

func TestSummarizeBookings_Empty(t *testing.T) {
	st := domain.SummarizeBookings(nil, time.Now())
	assert.Equal(t, 0, st.Total)
	assert.Equal(t, 0.0, st.AverageParty)
}

func TestParseTimeRange(t *testing.T) {
	assert.Equal(t, domain.RangeWeek, domain.ParseTimeRange("Week"))
	assert.Equal(t, domain.RangeMonth, domain.ParseTimeRange("month"))
	assert.Equal(t, domain.RangeAll, domain.ParseTimeRange("whatever"))
}

package domain

import (
	"strings"
	"time"
)

type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

func ParseTimeRange(s string) TimeRange {
	switch TimeRange(strings.ToLower(strings.TrimSpace(s))) {
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	default:
		return RangeAll
	}
}

type BookingFilter struct {
	Search string
	Range  TimeRange
}

// Cutoff returns the earliest fromDate kept by the range, or the zero time for "all".
func (r TimeRange) Cutoff(now time.Time) time.Time {
	switch r {
	case RangeWeek:
		return now.Add(-7 * 24 * time.Hour)
	case RangeMonth:
		y, m, d := now.Date()
		first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		if last := daysIn(first); d > last {
			d = last
		}
		return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, now.Location())
	default:
		return time.Time{}
	}
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

func (f BookingFilter) Match(b Booking, now time.Time) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(b.Name), term) &&
			!strings.Contains(strings.ToLower(b.Email), term) &&
			!strings.Contains(strings.ToLower(b.PropertyID), term) {
			return false
		}
	}
	if cut := f.Range.Cutoff(now); !cut.IsZero() && b.FromDate.Before(cut) {
		return false
	}
	return true
}

// FilterBookings never mutates its input; the result keeps input order.
func FilterBookings(in []Booking, f BookingFilter, now time.Time) []Booking {
	out := make([]Booking, 0, len(in))
	for _, b := range in {
		if f.Match(b, now) {
			out = append(out, b)
		}
	}
	return out
}

type MonthCount struct {
	Month    string `json:"month"`
	Bookings int    `json:"bookings"`
}

type BookingStats struct {
	Total        int            `json:"total"`
	Upcoming     int            `json:"upcoming"`
	AverageParty float64        `json:"averageParty"`
	ByMonth      []MonthCount   `json:"byMonth"`
	ByRoomType   map[string]int `json:"byRoomType"`
}

// SummarizeBookings aggregates the full (unfiltered) list.
func SummarizeBookings(in []Booking, now time.Time) BookingStats {
	st := BookingStats{
		Total:      len(in),
		ByMonth:    make([]MonthCount, 12),
		ByRoomType: map[string]int{},
	}
	for i := range st.ByMonth {
		st.ByMonth[i].Month = time.Month(i + 1).String()[:3]
	}
	people := 0
	for _, b := range in {
		people += b.People
		if b.FromDate.After(now) {
			st.Upcoming++
		}
		if b.FromDate.Year() == now.Year() {
			st.ByMonth[b.FromDate.Month()-1].Bookings++
		}
		rt := b.RoomType
		if rt == "" {
			rt = "Unknown"
		}
		st.ByRoomType[rt]++
	}
	if len(in) > 0 {
		st.AverageParty = float64(people) / float64(len(in))
	}
	return st
}

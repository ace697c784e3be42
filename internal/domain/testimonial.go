package domain

import (
	"strings"
	"time"
)

type Testimonial struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t Testimonial) Validate() error {
	switch {
	case strings.TrimSpace(t.Name) == "":
		return Invalid("name is required")
	case strings.TrimSpace(t.Message) == "":
		return Invalid("message is required")
	case t.Rating < 1 || t.Rating > 5:
		return Invalid("rating must be between 1 and 5")
	}
	return nil
}

type TestimonialFilter struct {
	Search string
	Rating int // 0 keeps every rating
}

func (f TestimonialFilter) Match(t Testimonial) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Message), term) {
			return false
		}
	}
	return f.Rating == 0 || t.Rating == f.Rating
}

func FilterTestimonials(in []Testimonial, f TestimonialFilter) []Testimonial {
	out := make([]Testimonial, 0, len(in))
	for _, t := range in {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

type RatingSummary struct {
	Total     int         `json:"total"`
	Average   float64     `json:"average"`
	Histogram map[int]int `json:"histogram"`
}

// SummarizeRatings counts each star value 1..5; out-of-range ratings are ignored.
func SummarizeRatings(in []Testimonial) RatingSummary {
	s := RatingSummary{Histogram: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, t := range in {
		if t.Rating < 1 || t.Rating > 5 {
			continue
		}
		s.Histogram[t.Rating]++
		s.Total++
		sum += t.Rating
	}
	if s.Total > 0 {
		s.Average = float64(sum) / float64(s.Total)
	}
	return s
}

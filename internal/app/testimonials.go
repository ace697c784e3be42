package app

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"palmnazi/internal/domain"
)

type TestimonialService struct {
	repo   domain.TestimonialRepository
	policy *bluemonday.Policy
	now    func() time.Time
	newID  func() string
}

func NewTestimonialService(r domain.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: r, policy: bluemonday.StrictPolicy(), now: time.Now, newID: uuid.NewString}
}

// maxSanitizePasses bounds plain; input still changing after that many passes
// is kept in its escaped form.
const maxSanitizePasses = 8

// plain strips every tag and returns readable text. Entities are decoded and the
// result sanitized again until it is stable, so encoded markup cannot come back
// as live tags.
func (s *TestimonialService) plain(in string) string {
	cur := in
	for range maxSanitizePasses {
		next := html.UnescapeString(s.policy.Sanitize(cur))
		if next == cur {
			return strings.TrimSpace(cur)
		}
		cur = next
	}
	return strings.TrimSpace(s.policy.Sanitize(cur))
}

func (s *TestimonialService) Create(ctx context.Context, t domain.Testimonial) (domain.Testimonial, error) {
	t.Name = s.plain(t.Name)
	t.Message = s.plain(t.Message)
	t.Email = strings.TrimSpace(t.Email)
	if err := t.Validate(); err != nil {
		return domain.Testimonial{}, err
	}
	now := s.now().UTC()
	t.ID = s.newID()
	t.CreatedAt, t.UpdatedAt = now, now
	if err := s.repo.CreateTestimonial(ctx, t); err != nil {
		return domain.Testimonial{}, storeErr("create testimonial", err)
	}
	return t, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteTestimonial(ctx, id); err != nil {
		return storeErr("delete testimonial", err)
	}
	return nil
}

func (s *TestimonialService) List(ctx context.Context, f domain.TestimonialFilter) ([]domain.Testimonial, error) {
	all, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return nil, storeErr("list testimonials", err)
	}
	return domain.FilterTestimonials(all, f), nil
}

func (s *TestimonialService) Summary(ctx context.Context) (domain.RatingSummary, error) {
	all, err := s.repo.ListTestimonials(ctx)
	if err != nil {
		return domain.RatingSummary{}, storeErr("list testimonials", err)
	}
	return domain.SummarizeRatings(all), nil
}

package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"palmnazi/internal/app"
	"palmnazi/internal/domain"
)

func TestTestimonials_CreateStripsMarkup(t *testing.T) {
	repo := &fakeTestimonials{}
	svc := app.NewTestimonialService(repo)

	got, err := svc.Create(context.Background(), domain.Testimonial{
		Name:    "<b>Amina</b>",
		Message: `Great stay & pool<script>alert(1)</script>`,
		Rating:  5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Name != "Amina" || got.Message != "Great stay & pool" {
		t.Fatalf("markup not stripped: %+v", got)
	}
	if got.ID == "" || len(repo.items) != 1 {
		t.Fatalf("testimonial not stored")
	}

	cases := []struct{ name, message string }{
		{"Amina &lt;img src=x onerror=alert(1)&gt;", "Nice &lt;script&gt;alert(1)&lt;/script&gt; stay"},
		{"Amina &amp;lt;b&amp;gt;", "Nice &amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt; stay"},
	}
	for _, tc := range cases {
		got, err := svc.Create(context.Background(), domain.Testimonial{Name: tc.name, Message: tc.message, Rating: 5})
		if err != nil {
			t.Fatalf("create %q: %v", tc.message, err)
		}
		for _, v := range []string{got.Name, got.Message} {
			if strings.ContainsAny(v, "<>") || strings.Contains(v, "alert") {
				t.Fatalf("encoded markup came back as html: %q", v)
			}
		}
		if !strings.HasPrefix(got.Name, "Amina") || !strings.HasPrefix(got.Message, "Nice") {
			t.Fatalf("readable text lost: %+v", got)
		}
	}
}

func TestTestimonials_Validation(t *testing.T) {
	svc := app.NewTestimonialService(&fakeTestimonials{})
	for _, tc := range []domain.Testimonial{
		{Name: "A", Message: "ok", Rating: 0},
		{Name: "A", Message: "ok", Rating: 6},
		{Name: "<i></i>", Message: "ok", Rating: 3},
		{Name: "A", Message: " ", Rating: 3},
	} {
		if _, err := svc.Create(context.Background(), tc); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", tc, err)
		}
	}
}

func TestTestimonials_ListSummaryDelete(t *testing.T) {
	repo := &fakeTestimonials{items: []domain.Testimonial{
		{ID: "t1", Name: "Amina", Message: "Lovely rooms", Rating: 5},
		{ID: "t2", Name: "Brian", Message: "Noisy at night", Rating: 2},
		{ID: "t3", Name: "Chen", Message: "lovely staff", Rating: 4},
	}}
	svc := app.NewTestimonialService(repo)
	ctx := context.Background()

	got, err := svc.List(ctx, domain.TestimonialFilter{Search: "LOVELY"})
	if err != nil || len(got) != 2 {
		t.Fatalf("search: %d items (%v)", len(got), err)
	}
	got, _ = svc.List(ctx, domain.TestimonialFilter{Rating: 2})
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("rating filter: %+v", got)
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.Total != 3 || sum.Histogram[5] != 1 || sum.Histogram[3] != 0 || sum.Average < 3.66 || sum.Average > 3.67 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	if err := svc.Delete(ctx, "t2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, "t2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

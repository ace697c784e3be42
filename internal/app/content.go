package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"palmnazi/internal/domain"
)

type ContentService struct {
	repo    domain.ContentRepository
	queries *QueryService
	now     func() time.Time
	newID   func() string
}

func NewContentService(r domain.ContentRepository, q *QueryService) *ContentService {
	return &ContentService{repo: r, queries: q, now: time.Now, newID: uuid.NewString}
}

func (s *ContentService) List(ctx context.Context) ([]domain.Content, error) {
	cs, err := s.repo.ListContent(ctx)
	if err != nil {
		return nil, storeErr("list content", err)
	}
	return cs, nil
}

func (s *ContentService) Hero(ctx context.Context) (domain.Content, error) {
	return s.queries.Hero(ctx)
}

func (s *ContentService) Create(ctx context.Context, c domain.Content) (domain.Content, error) {
	c.Header, c.Subheader = strings.TrimSpace(c.Header), strings.TrimSpace(c.Subheader)
	if err := c.Validate(); err != nil {
		return domain.Content{}, err
	}
	now := s.now().UTC()
	c.ID = s.newID()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := s.repo.CreateContent(ctx, c); err != nil {
		return domain.Content{}, storeErr("create content", err)
	}
	s.queries.InvalidateHero(ctx)
	return c, nil
}

func (s *ContentService) Update(ctx context.Context, c domain.Content) (domain.Content, error) {
	c.Header, c.Subheader = strings.TrimSpace(c.Header), strings.TrimSpace(c.Subheader)
	if c.ID == "" {
		return domain.Content{}, domain.Invalid("id is required")
	}
	if err := c.Validate(); err != nil {
		return domain.Content{}, err
	}
	all, err := s.repo.ListContent(ctx)
	if err != nil {
		return domain.Content{}, storeErr("list content", err)
	}
	found := false
	for _, cur := range all {
		if cur.ID == c.ID {
			c.CreatedAt, found = cur.CreatedAt, true
			break
		}
	}
	if !found {
		return domain.Content{}, domain.ErrNotFound
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateContent(ctx, c); err != nil {
		return domain.Content{}, storeErr("update content", err)
	}
	s.queries.InvalidateHero(ctx)
	return c, nil
}

func (s *ContentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteContent(ctx, id); err != nil {
		return storeErr("delete content", err)
	}
	s.queries.InvalidateHero(ctx)
	return nil
}

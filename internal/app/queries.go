package app

import (
	"context"
	"sort"
	"time"

	"palmnazi/internal/domain"
)

const (
	keyProperties = "properties:all"
	keyHero       = "content:hero"
)

func keyProperty(id string) string { return "property:" + id }

// QueryService serves the public read paths through the cache. Writers call
// the Invalidate methods after every successful mutation.
type QueryService struct {
	props    domain.PropertyRepository
	content  domain.ContentRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(p domain.PropertyRepository, c domain.ContentRepository, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{props: p, content: c, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) ttl() int { return int(s.cacheTTL.Seconds()) }

func (s *QueryService) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	key := keyProperty(id)
	var p domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &p); ok {
			return p, nil
		}
	}
	p, err := s.props.GetProperty(ctx, id)
	if err != nil {
		return domain.Property{}, storeErr("load property", err)
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, p, s.ttl())
	}
	return p, nil
}

func (s *QueryService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	var out []domain.Property
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, keyProperties, &out); ok {
			return out, nil
		}
	}
	ps, err := s.props.ListProperties(ctx)
	if err != nil {
		return nil, storeErr("list properties", err)
	}
	// copy so later repo mutations never leak into the cached value
	out = make([]domain.Property, len(ps))
	copy(out, ps)
	if s.cache != nil {
		_ = s.cache.Set(ctx, keyProperties, out, s.ttl())
	}
	return out, nil
}

// Hero returns the oldest content record.
func (s *QueryService) Hero(ctx context.Context) (domain.Content, error) {
	var c domain.Content
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, keyHero, &c); ok {
			return c, nil
		}
	}
	all, err := s.content.ListContent(ctx)
	if err != nil {
		return domain.Content{}, storeErr("list content", err)
	}
	if len(all) == 0 {
		return domain.Content{}, domain.ErrNotFound
	}
	c = oldest(all)
	if s.cache != nil {
		_ = s.cache.Set(ctx, keyHero, c, s.ttl())
	}
	return c, nil
}

func oldest(in []domain.Content) domain.Content {
	sorted := make([]domain.Content, len(in))
	copy(sorted, in)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	return sorted[0]
}

func (s *QueryService) InvalidateProperty(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if id != "" {
		_ = s.cache.Del(ctx, keyProperty(id))
	}
	_ = s.cache.Del(ctx, keyProperties)
}

func (s *QueryService) InvalidateHero(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, keyHero)
	}
}

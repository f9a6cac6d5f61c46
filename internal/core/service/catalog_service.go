package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type CatalogService struct {
	taxa   ports.TaxonomyRepository
	titles ports.TitleRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewCatalogService(taxa ports.TaxonomyRepository, titles ports.TitleRepository, logger zerolog.Logger) *CatalogService {
	return &CatalogService{taxa: taxa, titles: titles, logger: logger, now: time.Now}
}

func (s *CatalogService) ListTaxonomy(ctx context.Context, kind ports.TaxonomyKind) ([]domain.Taxon, error) {
	items, err := s.taxa.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

func (s *CatalogService) CreateTaxonomy(ctx context.Context, kind ports.TaxonomyKind, name, slug string) (*domain.Taxon, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, domain.NewFieldError("name", "is required")
	case utf8.RuneCountInString(name) > domain.MaxCatalogName:
		return nil, domain.NewFieldError("name", "must be at most 256 characters")
	case !domain.ValidSlug(slug):
		return nil, domain.NewFieldError("slug", "must be 1-50 characters of letters, digits, - and _")
	}

	created, err := s.taxa.Create(ctx, kind, domain.Taxon{Name: name, Slug: slug})
	if err != nil {
		return nil, passConflict("create "+string(kind), err)
	}
	s.logger.Info().Str("kind", string(kind)).Str("slug", slug).Msg("taxon created")
	return created, nil
}

func (s *CatalogService) DeleteTaxonomy(ctx context.Context, kind ports.TaxonomyKind, slug string) error {
	if err := s.taxa.DeleteBySlug(ctx, kind, slug); err != nil {
		return passNotFound("delete "+string(kind), err)
	}
	return nil
}

func (s *CatalogService) ListTitles(ctx context.Context) ([]*domain.TitleView, error) {
	titles, err := s.titles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return titles, nil
}

func (s *CatalogService) GetTitle(ctx context.Context, id string) (*domain.TitleView, error) {
	title, err := s.titles.Get(ctx, id)
	if err != nil {
		return nil, passNotFound("get title", err)
	}
	return title, nil
}

func (s *CatalogService) CreateTitle(ctx context.Context, in ports.TitleInput) (*domain.TitleView, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, domain.NewFieldError("name", "is required")
	}
	if in.Year == nil {
		return nil, domain.NewFieldError("year", "is required")
	}

	var title domain.Title
	if err := s.applyTitle(ctx, &title, in); err != nil {
		return nil, err
	}

	id, err := s.titles.Create(ctx, &title)
	if err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}
	s.logger.Info().Str("title_id", id).Str("name", title.Name).Msg("title created")
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) UpdateTitle(ctx context.Context, id string, in ports.TitleInput) (*domain.TitleView, error) {
	current, err := s.titles.Get(ctx, id)
	if err != nil {
		return nil, passNotFound("update title", err)
	}

	title := current.Title
	if err := s.applyTitle(ctx, &title, in); err != nil {
		return nil, err
	}
	if err := s.titles.Update(ctx, &title); err != nil {
		return nil, passNotFound("update title", err)
	}
	return s.GetTitle(ctx, id)
}

func (s *CatalogService) DeleteTitle(ctx context.Context, id string) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		return passNotFound("delete title", err)
	}
	s.logger.Info().Str("title_id", id).Msg("title deleted")
	return nil
}

// applyTitle validates the set fields of in and copies them onto t.
func (s *CatalogService) applyTitle(ctx context.Context, t *domain.Title, in ports.TitleInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.NewFieldError("name", "must not be blank")
		}
		t.Name = name
	}
	if in.Year != nil {
		if *in.Year > s.now().Year() {
			return domain.NewFieldError("year", "cannot be in the future")
		}
		t.Year = *in.Year
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Category != nil {
		if *in.Category != "" {
			if err := s.requireSlugs(ctx, ports.KindCategory, []string{*in.Category}); err != nil {
				return err
			}
		}
		t.CategorySlug = *in.Category
	}
	if in.Genres != nil {
		genres := dedupe(*in.Genres)
		if err := s.requireSlugs(ctx, ports.KindGenre, genres); err != nil {
			return err
		}
		t.GenreSlugs = genres
	}
	return nil
}

func (s *CatalogService) requireSlugs(ctx context.Context, kind ports.TaxonomyKind, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	n, err := s.taxa.CountBySlugs(ctx, kind, slugs)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", kind, err)
	}
	if n == len(slugs) {
		return nil
	}
	if kind == ports.KindCategory {
		return domain.NewFieldError("category", "unknown category")
	}
	return domain.NewFieldError("genre", "unknown genre")
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

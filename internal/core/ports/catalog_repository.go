package ports

import (
	"context"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// TaxonomyKind selects the categories or genres collection.
type TaxonomyKind string

const (
	KindCategory TaxonomyKind = "categories"
	KindGenre    TaxonomyKind = "genres"
)

// TaxonomyRepository stores categories and genres. Slugs are unique per kind.
type TaxonomyRepository interface {
	List(ctx context.Context, kind TaxonomyKind) ([]domain.Taxon, error)
	Create(ctx context.Context, kind TaxonomyKind, taxon domain.Taxon) (*domain.Taxon, error)
	// DeleteBySlug removes the entry and detaches it from every title.
	DeleteBySlug(ctx context.Context, kind TaxonomyKind, slug string) error
	// CountBySlugs returns how many of slugs exist.
	CountBySlugs(ctx context.Context, kind TaxonomyKind, slugs []string) (int, error)
}

// TitleRepository stores titles. Reads resolve category, genres and rating.
type TitleRepository interface {
	List(ctx context.Context) ([]*domain.TitleView, error)
	Get(ctx context.Context, id string) (*domain.TitleView, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, title *domain.Title) (string, error)
	Update(ctx context.Context, title *domain.Title) error
	// Delete removes the title together with its reviews and their comments.
	Delete(ctx context.Context, id string) error
}

package ports

import (
	"context"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

type TitleInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// CatalogService manages categories, genres and titles.
type CatalogService interface {
	ListTaxonomy(ctx context.Context, kind TaxonomyKind) ([]domain.Taxon, error)
	CreateTaxonomy(ctx context.Context, kind TaxonomyKind, name, slug string) (*domain.Taxon, error)
	DeleteTaxonomy(ctx context.Context, kind TaxonomyKind, slug string) error

	ListTitles(ctx context.Context) ([]*domain.TitleView, error)
	GetTitle(ctx context.Context, id string) (*domain.TitleView, error)
	CreateTitle(ctx context.Context, in TitleInput) (*domain.TitleView, error)
	UpdateTitle(ctx context.Context, id string, in TitleInput) (*domain.TitleView, error)
	DeleteTitle(ctx context.Context, id string) error
}

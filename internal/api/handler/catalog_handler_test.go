package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type stubCatalogService struct {
	listTaxonomyFn   func(ctx context.Context, kind ports.TaxonomyKind) ([]domain.Taxon, error)
	createTaxonomyFn func(ctx context.Context, kind ports.TaxonomyKind, name, slug string) (*domain.Taxon, error)
	deleteTaxonomyFn func(ctx context.Context, kind ports.TaxonomyKind, slug string) error
	listTitlesFn     func(ctx context.Context) ([]*domain.TitleView, error)
	getTitleFn       func(ctx context.Context, id string) (*domain.TitleView, error)
	createTitleFn    func(ctx context.Context, in ports.TitleInput) (*domain.TitleView, error)
	updateTitleFn    func(ctx context.Context, id string, in ports.TitleInput) (*domain.TitleView, error)
	deleteTitleFn    func(ctx context.Context, id string) error
}

func (s *stubCatalogService) ListTaxonomy(ctx context.Context, kind ports.TaxonomyKind) ([]domain.Taxon, error) {
	return s.listTaxonomyFn(ctx, kind)
}

func (s *stubCatalogService) CreateTaxonomy(ctx context.Context, kind ports.TaxonomyKind, name, slug string) (*domain.Taxon, error) {
	return s.createTaxonomyFn(ctx, kind, name, slug)
}

func (s *stubCatalogService) DeleteTaxonomy(ctx context.Context, kind ports.TaxonomyKind, slug string) error {
	return s.deleteTaxonomyFn(ctx, kind, slug)
}

func (s *stubCatalogService) ListTitles(ctx context.Context) ([]*domain.TitleView, error) {
	return s.listTitlesFn(ctx)
}

func (s *stubCatalogService) GetTitle(ctx context.Context, id string) (*domain.TitleView, error) {
	return s.getTitleFn(ctx, id)
}

func (s *stubCatalogService) CreateTitle(ctx context.Context, in ports.TitleInput) (*domain.TitleView, error) {
	return s.createTitleFn(ctx, in)
}

func (s *stubCatalogService) UpdateTitle(ctx context.Context, id string, in ports.TitleInput) (*domain.TitleView, error) {
	return s.updateTitleFn(ctx, id, in)
}

func (s *stubCatalogService) DeleteTitle(ctx context.Context, id string) error {
	return s.deleteTitleFn(ctx, id)
}

func TestTaxonomyHandler_CreateUsesKind(t *testing.T) {
	e := newTestEcho()
	stub := &stubCatalogService{
		createTaxonomyFn: func(_ context.Context, kind ports.TaxonomyKind, name, slug string) (*domain.Taxon, error) {
			if kind != ports.KindGenre {
				t.Fatalf("expected genre kind, got %v", kind)
			}
			return &domain.Taxon{ID: "g1", Name: name, Slug: slug}, nil
		},
	}
	h := NewTaxonomyHandler(stub, ports.KindGenre)

	rec, err := call(t, e, h.Create, http.MethodPost, `{"name":"Drama","slug":"drama"}`, nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp taxonResponse
	decode(t, rec, &resp)
	if resp != (taxonResponse{Name: "Drama", Slug: "drama"}) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestTaxonomyHandler_CreateRejectsBadSlug(t *testing.T) {
	e := newTestEcho()
	h := NewTaxonomyHandler(&stubCatalogService{}, ports.KindCategory)

	_, err := call(t, e, h.Create, http.MethodPost, `{"name":"Films","slug":"фильмы"}`, nil)
	if _, ok := fieldsOf(t, err)["slug"]; !ok {
		t.Fatalf("expected slug error, got %v", err)
	}
}

func TestTitleHandler_GetRendersRatingAndRefs(t *testing.T) {
	e := newTestEcho()
	rating := 7.5
	stub := &stubCatalogService{
		getTitleFn: func(_ context.Context, id string) (*domain.TitleView, error) {
			return &domain.TitleView{
				Title:    domain.Title{ID: id, Name: "Solaris", Year: 1972},
				Category: &domain.Taxon{Name: "Films", Slug: "films"},
				Genres:   []domain.Taxon{{Name: "Drama", Slug: "drama"}},
				Rating:   &rating,
			}, nil
		},
	}
	h := NewTitleHandler(stub)

	rec, err := call(t, e, h.Get, http.MethodGet, "", withParams([]string{"title_id"}, []string{"t1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp titleResponse
	decode(t, rec, &resp)
	if resp.ID != "t1" || resp.Rating == nil || *resp.Rating != 7.5 {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.Category == nil || resp.Category.Slug != "films" || len(resp.Genre) != 1 {
		t.Fatalf("references not rendered: %+v", resp)
	}
}

func TestTitleHandler_UnratedTitleHasNullRating(t *testing.T) {
	e := newTestEcho()
	stub := &stubCatalogService{
		listTitlesFn: func(context.Context) ([]*domain.TitleView, error) {
			return []*domain.TitleView{{Title: domain.Title{ID: "t1", Name: "New", Year: 2020}}}, nil
		},
	}
	h := NewTitleHandler(stub)

	rec, err := call(t, e, h.List, http.MethodGet, "", nil)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []map[string]any
	decode(t, rec, &resp)
	if len(resp) != 1 {
		t.Fatalf("expected one title, got %d", len(resp))
	}
	if v, ok := resp[0]["rating"]; !ok || v != nil {
		t.Fatalf("expected null rating, got %v", v)
	}
	if genres, ok := resp[0]["genre"].([]any); !ok || len(genres) != 0 {
		t.Fatalf("expected empty genre list, got %v", resp[0]["genre"])
	}
}

func TestTitleHandler_UpdateForwardsPartialInput(t *testing.T) {
	e := newTestEcho()
	stub := &stubCatalogService{
		updateTitleFn: func(_ context.Context, id string, in ports.TitleInput) (*domain.TitleView, error) {
			if in.Name != nil || in.Year != nil || in.Genres == nil || len(*in.Genres) != 1 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.TitleView{Title: domain.Title{ID: id, GenreSlugs: *in.Genres}}, nil
		},
	}
	h := NewTitleHandler(stub)

	rec, err := call(t, e, h.Update, http.MethodPatch, `{"genre":["comedy"]}`, withParams([]string{"title_id"}, []string{"t1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

// TaxonomyRepository keeps categories and genres in one collection each,
// named after the kind.
type TaxonomyRepository struct {
	db     *mongo.Database
	titles *mongo.Collection
}

func NewTaxonomyRepository(db *mongo.Database) *TaxonomyRepository {
	return &TaxonomyRepository{db: db, titles: db.Collection(collectionTitles)}
}

type taxonDoc struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
	Slug string             `bson:"slug"`
}

func (d taxonDoc) toDomain() domain.Taxon {
	return domain.Taxon{ID: d.ID.Hex(), Name: d.Name, Slug: d.Slug}
}

func (r *TaxonomyRepository) col(kind ports.TaxonomyKind) *mongo.Collection {
	return r.db.Collection(string(kind))
}

func (r *TaxonomyRepository) List(ctx context.Context, kind ports.TaxonomyKind) ([]domain.Taxon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col(kind).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var docs []taxonDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}

	out := make([]domain.Taxon, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *TaxonomyRepository) Create(ctx context.Context, kind ports.TaxonomyKind, taxon domain.Taxon) (*domain.Taxon, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col(kind).InsertOne(ctx, taxonDoc{Name: taxon.Name, Slug: taxon.Slug})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	taxon.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &taxon, nil
}

// DeleteBySlug removes the entry and detaches it from titles: a deleted
// category leaves its titles uncategorised, a deleted genre is pulled from
// every genre list.
func (r *TaxonomyRepository) DeleteBySlug(ctx context.Context, kind ports.TaxonomyKind, slug string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col(kind).DeleteOne(ctx, bson.M{"slug": slug})
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %q: %w", kind, slug, domain.ErrNotFound)
	}

	var update bson.M
	var filter bson.M
	switch kind {
	case ports.KindCategory:
		filter = bson.M{"category": slug}
		update = bson.M{"$unset": bson.M{"category": ""}}
	case ports.KindGenre:
		filter = bson.M{"genres": slug}
		update = bson.M{"$pull": bson.M{"genres": slug}}
	default:
		return nil
	}
	if _, err := r.titles.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("detach %s %q: %w", kind, slug, err)
	}
	return nil
}

func (r *TaxonomyRepository) CountBySlugs(ctx context.Context, kind ports.TaxonomyKind, slugs []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col(kind).CountDocuments(ctx, bson.M{"slug": bson.M{"$in": slugs}})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return int(n), nil
}

func (r *TaxonomyRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	for _, kind := range []ports.TaxonomyKind{ports.KindCategory, ports.KindGenre} {
		_, err := r.col(kind).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(string(kind) + "_slug_unique"),
		})
		if err != nil {
			return fmt.Errorf("%s indexes: %w", kind, err)
		}
	}
	return nil
}

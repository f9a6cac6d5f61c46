package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type TitleRepository struct {
	col      *mongo.Collection
	reviews  *mongo.Collection
	comments *mongo.Collection
}

func NewTitleRepository(db *mongo.Database) *TitleRepository {
	return &TitleRepository{
		col:      db.Collection(collectionTitles),
		reviews:  db.Collection(collectionReviews),
		comments: db.Collection(collectionComments),
	}
}

type titleDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Year        int                `bson:"year"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Genres      []string           `bson:"genres"`
}

// titleViewDoc is a title after the joins of titleView.
type titleViewDoc struct {
	Title        titleDoc   `bson:",inline"`
	CategoryDocs []taxonDoc `bson:"category_docs"`
	GenreDocs    []taxonDoc `bson:"genre_docs"`
	Rating       *float64   `bson:"rating"`
}

func toTitleDoc(t *domain.Title) titleDoc {
	genres := t.GenreSlugs
	if genres == nil {
		genres = []string{}
	}
	return titleDoc{
		Name:        t.Name,
		Year:        t.Year,
		Description: t.Description,
		Category:    t.CategorySlug,
		Genres:      genres,
	}
}

func (d titleViewDoc) toDomain() *domain.TitleView {
	v := &domain.TitleView{
		Title: domain.Title{
			ID:           d.Title.ID.Hex(),
			Name:         d.Title.Name,
			Year:         d.Title.Year,
			Description:  d.Title.Description,
			CategorySlug: d.Title.Category,
			GenreSlugs:   d.Title.Genres,
		},
		Genres: make([]domain.Taxon, 0, len(d.GenreDocs)),
		Rating: d.Rating,
	}
	if len(d.CategoryDocs) > 0 {
		c := d.CategoryDocs[0].toDomain()
		v.Category = &c
	}
	for _, g := range d.GenreDocs {
		v.Genres = append(v.Genres, g.toDomain())
	}
	return v
}

// titleView joins category, genres and the average review score onto the
// titles selected by match. $avg over no reviews yields null.
func titleView(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         string(ports.KindCategory),
			"localField":   "category",
			"foreignField": "slug",
			"as":           "category_docs",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         string(ports.KindGenre),
			"localField":   "genres",
			"foreignField": "slug",
			"as":           "genre_docs",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionReviews,
			"localField":   "_id",
			"foreignField": "title_id",
			"as":           "scores",
		}}},
		{{Key: "$set", Value: bson.M{"rating": bson.M{"$avg": "$scores.score"}}}},
		{{Key: "$unset", Value: "scores"}},
	}
}

func (r *TitleRepository) find(ctx context.Context, match bson.M) ([]*domain.TitleView, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, titleView(match))
	if err != nil {
		return nil, err
	}
	var docs []titleViewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.TitleView, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *TitleRepository) List(ctx context.Context) ([]*domain.TitleView, error) {
	titles, err := r.find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	return titles, nil
}

func (r *TitleRepository) Get(ctx context.Context, id string) (*domain.TitleView, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, domain.ErrTitleNotFound
	}
	titles, err := r.find(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}
	if len(titles) == 0 {
		return nil, domain.ErrTitleNotFound
	}
	return titles[0], nil
}

func (r *TitleRepository) Exists(ctx context.Context, id string) (bool, error) {
	oid, ok := parseID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("title exists: %w", err)
	}
	return n > 0, nil
}

func (r *TitleRepository) Create(ctx context.Context, title *domain.Title) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toTitleDoc(title))
	if err != nil {
		return "", fmt.Errorf("insert title: %w", err)
	}
	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (r *TitleRepository) Update(ctx context.Context, title *domain.Title) error {
	oid, ok := parseID(title.ID)
	if !ok {
		return domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toTitleDoc(title)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("update title: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (r *TitleRepository) Delete(ctx context.Context, id string) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete title: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTitleNotFound
	}
	if err := deleteReviews(ctx, r.reviews, r.comments, bson.M{"title_id": oid}); err != nil {
		return fmt.Errorf("delete title reviews: %w", err)
	}
	return nil
}

func (r *TitleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "genres", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("title indexes: %w", err)
	}
	return nil
}

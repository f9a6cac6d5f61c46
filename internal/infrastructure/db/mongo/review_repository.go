package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

type ReviewRepository struct {
	col      *mongo.Collection
	comments *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		col:      db.Collection(collectionReviews),
		comments: db.Collection(collectionComments),
	}
}

type reviewDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	TitleID        primitive.ObjectID `bson:"title_id"`
	AuthorID       primitive.ObjectID `bson:"author_id"`
	AuthorUsername string             `bson:"author_username,omitempty"`
	Text           string             `bson:"text"`
	Score          int                `bson:"score"`
	PubDate        time.Time          `bson:"pub_date"`
}

func (d reviewDoc) toDomain() *domain.Review {
	return &domain.Review{
		ID:             d.ID.Hex(),
		TitleID:        d.TitleID.Hex(),
		AuthorID:       d.AuthorID.Hex(),
		AuthorUsername: d.AuthorUsername,
		Text:           d.Text,
		Score:          d.Score,
		PubDate:        d.PubDate.UTC(),
	}
}

// withAuthor resolves author_id into author_username. Usernames can change,
// so they are joined on read rather than copied on write.
func withAuthor(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "pub_date", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "author_id",
			"foreignField": "_id",
			"as":           "author",
		}}},
		{{Key: "$set", Value: bson.M{
			"author_username": bson.M{"$arrayElemAt": bson.A{"$author.username", 0}},
		}}},
		{{Key: "$unset", Value: "author"}},
	}
}

func (r *ReviewRepository) ListByTitle(ctx context.Context, titleID string) ([]*domain.Review, error) {
	tid, ok := parseID(titleID)
	if !ok {
		return nil, domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withAuthor(bson.M{"title_id": tid}))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	out := make([]*domain.Review, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ReviewRepository) Get(ctx context.Context, titleID, id string) (*domain.Review, error) {
	tid, ok1 := parseID(titleID)
	rid, ok2 := parseID(id)
	if !ok1 || !ok2 {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, withAuthor(bson.M{"_id": rid, "title_id": tid}))
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return docs[0].toDomain(), nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	tid, ok1 := parseID(review.TitleID)
	aid, ok2 := parseID(review.AuthorID)
	if !ok1 || !ok2 {
		return nil, domain.ErrTitleNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, reviewDoc{
		TitleID:  tid,
		AuthorID: aid,
		Text:     review.Text,
		Score:    review.Score,
		PubDate:  review.PubDate.UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	created := *review
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	rid, ok := parseID(review.ID)
	if !ok {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": rid}, bson.M{"$set": bson.M{
		"text":  review.Text,
		"score": review.Score,
	}})
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return review, nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	rid, ok := parseID(id)
	if !ok {
		return domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": rid})
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReviewNotFound
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"review_id": rid}); err != nil {
		return fmt.Errorf("delete review comments: %w", err)
	}
	return nil
}

// EnsureIndexes creates the (title_id, author_id) unique index that allows one
// review per author per title.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "title_id", Value: 1}, {Key: "author_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("reviews_title_author_unique"),
		},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("review indexes: %w", err)
	}
	return nil
}

// deleteReviews removes the reviews matching filter along with their comments.
func deleteReviews(ctx context.Context, reviews, comments *mongo.Collection, filter bson.M) error {
	cur, err := reviews.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return err
	}
	var ids []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	oids := make(bson.A, 0, len(ids))
	for _, d := range ids {
		oids = append(oids, d.ID)
	}
	if _, err := comments.DeleteMany(ctx, bson.M{"review_id": bson.M{"$in": oids}}); err != nil {
		return err
	}
	_, err = reviews.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": oids}})
	return err
}

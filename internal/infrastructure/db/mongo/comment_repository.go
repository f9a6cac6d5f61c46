package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

type commentDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ReviewID       primitive.ObjectID `bson:"review_id"`
	AuthorID       primitive.ObjectID `bson:"author_id"`
	AuthorUsername string             `bson:"author_username,omitempty"`
	Text           string             `bson:"text"`
	PubDate        time.Time          `bson:"pub_date"`
}

func (d commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:             d.ID.Hex(),
		ReviewID:       d.ReviewID.Hex(),
		AuthorID:       d.AuthorID.Hex(),
		AuthorUsername: d.AuthorUsername,
		Text:           d.Text,
		PubDate:        d.PubDate.UTC(),
	}
}

func (r *CommentRepository) aggregate(ctx context.Context, match bson.M) ([]commentDoc, error) {
	cur, err := r.col.Aggregate(ctx, withAuthor(match))
	if err != nil {
		return nil, err
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *CommentRepository) ListByReview(ctx context.Context, reviewID string) ([]*domain.Comment, error) {
	rid, ok := parseID(reviewID)
	if !ok {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := r.aggregate(ctx, bson.M{"review_id": rid})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CommentRepository) Get(ctx context.Context, reviewID, id string) (*domain.Comment, error) {
	rid, ok1 := parseID(reviewID)
	cid, ok2 := parseID(id)
	if !ok1 || !ok2 {
		return nil, domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs, err := r.aggregate(ctx, bson.M{"_id": cid, "review_id": rid})
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return docs[0].toDomain(), nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	rid, ok1 := parseID(comment.ReviewID)
	aid, ok2 := parseID(comment.AuthorID)
	if !ok1 || !ok2 {
		return nil, domain.ErrReviewNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, commentDoc{
		ReviewID: rid,
		AuthorID: aid,
		Text:     comment.Text,
		PubDate:  comment.PubDate.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	created := *comment
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	cid, ok := parseID(comment.ID)
	if !ok {
		return nil, domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": cid}, bson.M{"$set": bson.M{"text": comment.Text}})
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCommentNotFound
	}
	return comment, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	cid, ok := parseID(id)
	if !ok {
		return domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": cid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "review_id", Value: 1}, {Key: "pub_date", Value: -1}}},
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("comment indexes: %w", err)
	}
	return nil
}

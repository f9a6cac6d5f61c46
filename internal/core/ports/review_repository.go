package ports

import (
	"context"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

// ReviewRepository stores reviews. (TitleID, AuthorID) is unique; a second
// review by the same author returns domain.ErrReviewExists.
type ReviewRepository interface {
	ListByTitle(ctx context.Context, titleID string) ([]*domain.Review, error)
	Get(ctx context.Context, titleID, id string) (*domain.Review, error)
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) (*domain.Review, error)
	// Delete removes the review and its comments.
	Delete(ctx context.Context, id string) error
}

// CommentRepository stores comments on reviews.
type CommentRepository interface {
	ListByReview(ctx context.Context, reviewID string) ([]*domain.Comment, error)
	Get(ctx context.Context, reviewID, id string) (*domain.Comment, error)
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

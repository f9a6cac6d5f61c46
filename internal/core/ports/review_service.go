package ports

import (
	"context"

	"github.com/yamdb/api-yamdb/internal/core/domain"
)

type ReviewInput struct {
	Text  *string
	Score *int
}

// ReviewService manages reviews and comments. Write operations take the acting
// identity and enforce ownership through the access controller.
type ReviewService interface {
	ListReviews(ctx context.Context, titleID string) ([]*domain.Review, error)
	GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error)
	CreateReview(ctx context.Context, actor *domain.User, titleID string, in ReviewInput) (*domain.Review, error)
	UpdateReview(ctx context.Context, actor *domain.User, titleID, reviewID string, in ReviewInput) (*domain.Review, error)
	DeleteReview(ctx context.Context, actor *domain.User, titleID, reviewID string) error

	ListComments(ctx context.Context, titleID, reviewID string) ([]*domain.Comment, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error)
	CreateComment(ctx context.Context, actor *domain.User, titleID, reviewID, text string) (*domain.Comment, error)
	UpdateComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string, text *string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string) error
}

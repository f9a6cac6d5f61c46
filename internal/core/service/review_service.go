package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yamdb/api-yamdb/internal/core/access"
	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
	"github.com/yamdb/api-yamdb/internal/pkg/metrics"
)

type ReviewService struct {
	titles   ports.TitleRepository
	reviews  ports.ReviewRepository
	comments ports.CommentRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewReviewService(
	titles ports.TitleRepository,
	reviews ports.ReviewRepository,
	comments ports.CommentRepository,
	logger zerolog.Logger,
) *ReviewService {
	return &ReviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
		logger:   logger,
		now:      time.Now,
	}
}

// ── Reviews ──────────────────────────────────────────────────────────────────

func (s *ReviewService) ListReviews(ctx context.Context, titleID string) ([]*domain.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByTitle(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		return nil, passNotFound("get review", err)
	}
	return review, nil
}

// CreateReview adds actor's review of the title. A second review by the same
// author fails with domain.ErrReviewExists whatever the author's role.
func (s *ReviewService) CreateReview(ctx context.Context, actor *domain.User, titleID string, in ports.ReviewInput) (*domain.Review, error) {
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceReview}); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if in.Text == nil || strings.TrimSpace(*in.Text) == "" {
		return nil, domain.NewFieldError("text", "is required")
	}
	if in.Score == nil {
		return nil, domain.NewFieldError("score", "is required")
	}
	if !domain.ValidScore(*in.Score) {
		return nil, domain.NewFieldError("score", "must be between 1 and 10")
	}

	review, err := s.reviews.Create(ctx, &domain.Review{
		TitleID:        titleID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           *in.Text,
		Score:          *in.Score,
		PubDate:        s.stamp(),
	})
	if err != nil {
		return nil, passConflict("create review", err)
	}

	s.logger.Info().Str("title_id", titleID).Str("author", actor.Username).Int("score", review.Score).Msg("review created")
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor *domain.User, titleID, reviewID string, in ports.ReviewInput) (*domain.Review, error) {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceReview, OwnerID: review.AuthorID}); err != nil {
		return nil, err
	}

	if in.Text != nil {
		if strings.TrimSpace(*in.Text) == "" {
			return nil, domain.NewFieldError("text", "must not be blank")
		}
		review.Text = *in.Text
	}
	if in.Score != nil {
		if !domain.ValidScore(*in.Score) {
			return nil, domain.NewFieldError("score", "must be between 1 and 10")
		}
		review.Score = *in.Score
	}

	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		return nil, passNotFound("update review", err)
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor *domain.User, titleID, reviewID string) error {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceReview, OwnerID: review.AuthorID}); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return passNotFound("delete review", err)
	}

	s.logger.Info().Str("review_id", review.ID).Str("by", actor.Username).Msg("review deleted")
	return nil
}

// ── Comments ─────────────────────────────────────────────────────────────────

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID string) ([]*domain.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByReview(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID string) (*domain.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		return nil, passNotFound("get comment", err)
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, actor *domain.User, titleID, reviewID, text string) (*domain.Comment, error) {
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceComment}); err != nil {
		return nil, err
	}
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewFieldError("text", "is required")
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		ReviewID:       review.ID,
		AuthorID:       actor.ID,
		AuthorUsername: actor.Username,
		Text:           text,
		PubDate:        s.stamp(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string, text *string) (*domain.Comment, error) {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceComment, OwnerID: comment.AuthorID}); err != nil {
		return nil, err
	}
	if text != nil {
		if strings.TrimSpace(*text) == "" {
			return nil, domain.NewFieldError("text", "must not be blank")
		}
		comment.Text = *text
	}

	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		return nil, passNotFound("update comment", err)
	}
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, actor *domain.User, titleID, reviewID, commentID string) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := checkAccess(access.Request{Actor: actor, Action: access.ActionWrite, Resource: access.ResourceComment, OwnerID: comment.AuthorID}); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return passNotFound("delete comment", err)
	}
	return nil
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID string) error {
	ok, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("lookup title: %w", err)
	}
	if !ok {
		return domain.ErrTitleNotFound
	}
	return nil
}

func (s *ReviewService) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// checkAccess runs the access controller for r and records the decision.
func checkAccess(r access.Request) error {
	d := access.Authorize(r)
	metrics.AccessDecisionsTotal.WithLabelValues(string(r.Resource), r.Action.String(), d.String()).Inc()
	if d == access.Allow {
		return nil
	}
	return access.Check(r)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

type stubReviewService struct {
	ports.ReviewService

	createReviewFn  func(ctx context.Context, actor *domain.User, titleID string, in ports.ReviewInput) (*domain.Review, error)
	deleteReviewFn  func(ctx context.Context, actor *domain.User, titleID, reviewID string) error
	listCommentsFn  func(ctx context.Context, titleID, reviewID string) ([]*domain.Comment, error)
	createCommentFn func(ctx context.Context, actor *domain.User, titleID, reviewID, text string) (*domain.Comment, error)
}

func (s *stubReviewService) CreateReview(ctx context.Context, actor *domain.User, titleID string, in ports.ReviewInput) (*domain.Review, error) {
	return s.createReviewFn(ctx, actor, titleID, in)
}

func (s *stubReviewService) DeleteReview(ctx context.Context, actor *domain.User, titleID, reviewID string) error {
	return s.deleteReviewFn(ctx, actor, titleID, reviewID)
}

func (s *stubReviewService) ListComments(ctx context.Context, titleID, reviewID string) ([]*domain.Comment, error) {
	return s.listCommentsFn(ctx, titleID, reviewID)
}

func (s *stubReviewService) CreateComment(ctx context.Context, actor *domain.User, titleID, reviewID, text string) (*domain.Comment, error) {
	return s.createCommentFn(ctx, actor, titleID, reviewID, text)
}

var carol = &domain.User{ID: "c", Username: "carol", Role: domain.RoleUser, IsActive: true}

func TestReviewHandler_CreateReview(t *testing.T) {
	e := newTestEcho()
	pub := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubReviewService{
		createReviewFn: func(_ context.Context, actor *domain.User, titleID string, in ports.ReviewInput) (*domain.Review, error) {
			if actor != carol || titleID != "t1" {
				t.Fatalf("unexpected actor/title: %v %s", actor, titleID)
			}
			return &domain.Review{ID: "r1", TitleID: titleID, AuthorUsername: actor.Username, Text: *in.Text, Score: *in.Score, PubDate: pub}, nil
		},
	}
	h := NewReviewHandler(stub)

	rec, err := call(t, e, h.CreateReview, http.MethodPost, `{"text":"great","score":9}`, func(c echo.Context) {
		withActor(carol)(c)
		withParams([]string{"title_id"}, []string{"t1"})(c)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp reviewResponse
	decode(t, rec, &resp)
	if resp.Author != "carol" || resp.Score != 9 || !resp.PubDate.Equal(pub) {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReviewHandler_CreateReviewScoreOutOfRange(t *testing.T) {
	e := newTestEcho()
	h := NewReviewHandler(&stubReviewService{})

	_, err := call(t, e, h.CreateReview, http.MethodPost, `{"text":"meh","score":11}`, withActor(carol))
	if _, ok := fieldsOf(t, err)["score"]; !ok {
		t.Fatalf("expected score error, got %v", err)
	}
}

func TestReviewHandler_DeleteForbiddenPassesThrough(t *testing.T) {
	e := newTestEcho()
	stub := &stubReviewService{
		deleteReviewFn: func(context.Context, *domain.User, string, string) error {
			return domain.ErrForbidden
		},
	}
	h := NewReviewHandler(stub)

	_, err := call(t, e, h.DeleteReview, http.MethodDelete, "", withActor(carol))
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestReviewHandler_Comments(t *testing.T) {
	e := newTestEcho()
	stub := &stubReviewService{
		listCommentsFn: func(_ context.Context, titleID, reviewID string) ([]*domain.Comment, error) {
			if titleID != "t1" || reviewID != "r1" {
				t.Fatalf("unexpected path: %s %s", titleID, reviewID)
			}
			return []*domain.Comment{{ID: "c1", AuthorUsername: "bob", Text: "agreed"}}, nil
		},
		createCommentFn: func(_ context.Context, actor *domain.User, _, reviewID, text string) (*domain.Comment, error) {
			return &domain.Comment{ID: "c2", ReviewID: reviewID, AuthorUsername: actor.Username, Text: text}, nil
		},
	}
	h := NewReviewHandler(stub)
	params := withParams([]string{"title_id", "review_id"}, []string{"t1", "r1"})

	rec, err := call(t, e, h.ListComments, http.MethodGet, "", params)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var list []commentResponse
	decode(t, rec, &list)
	if len(list) != 1 || list[0].Author != "bob" {
		t.Fatalf("unexpected payload: %+v", list)
	}

	rec, err = call(t, e, h.CreateComment, http.MethodPost, `{"text":"me too"}`, func(c echo.Context) {
		params(c)
		withActor(carol)(c)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var created commentResponse
	decode(t, rec, &created)
	if created.Author != "carol" || created.Text != "me too" {
		t.Fatalf("unexpected payload: %+v", created)
	}
}

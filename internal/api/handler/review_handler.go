package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/api/middleware"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

// ReviewHandler serves reviews of a title and the comments under them.
// Ownership is enforced by the service once the target is loaded.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews handles GET /titles/:title_id/reviews.
//
// @Summary      List reviews of a title
// @Tags         reviews
// @Produce      json
// @Param        title_id  path      string  true  "Title id"
// @Success      200       {array}   reviewResponse
// @Failure      404       {object}  errorResponse
// @Router       /titles/{title_id}/reviews [get]
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.service.ListReviews(c.Request().Context(), c.Param("title_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(reviews, toReviewResponse))
}

// GetReview handles GET /titles/:title_id/reviews/:review_id.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        title_id   path      string  true  "Title id"
// @Param        review_id  path      string  true  "Review id"
// @Success      200        {object}  reviewResponse
// @Failure      404        {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [get]
func (h *ReviewHandler) GetReview(c echo.Context) error {
	review, err := h.service.GetReview(c.Request().Context(), c.Param("title_id"), c.Param("review_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// CreateReview handles POST /titles/:title_id/reviews.
//
// @Summary      Review a title
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id  path      string         true  "Title id"
// @Param        body      body      reviewRequest  true  "Review"
// @Success      201       {object}  reviewResponse
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /titles/{title_id}/reviews [post]
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req reviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	review, err := h.service.CreateReview(c.Request().Context(), middleware.Actor(c), c.Param("title_id"),
		ports.ReviewInput{Text: req.Text, Score: req.Score})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// UpdateReview handles PATCH /titles/:title_id/reviews/:review_id.
//
// @Summary      Update a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id   path      string         true  "Title id"
// @Param        review_id  path      string         true  "Review id"
// @Param        body       body      reviewRequest  true  "Fields to change"
// @Success      200        {object}  reviewResponse
// @Failure      400        {object}  errorResponse
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [patch]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	var req reviewRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	review, err := h.service.UpdateReview(c.Request().Context(), middleware.Actor(c),
		c.Param("title_id"), c.Param("review_id"), ports.ReviewInput{Text: req.Text, Score: req.Score})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// DeleteReview handles DELETE /titles/:title_id/reviews/:review_id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Security     BearerAuth
// @Param        title_id   path  string  true  "Title id"
// @Param        review_id  path  string  true  "Review id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	err := h.service.DeleteReview(c.Request().Context(), middleware.Actor(c), c.Param("title_id"), c.Param("review_id"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListComments handles GET .../reviews/:review_id/comments.
//
// @Summary      List comments on a review
// @Tags         comments
// @Produce      json
// @Param        title_id   path      string  true  "Title id"
// @Param        review_id  path      string  true  "Review id"
// @Success      200        {array}   commentResponse
// @Failure      404        {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [get]
func (h *ReviewHandler) ListComments(c echo.Context) error {
	comments, err := h.service.ListComments(c.Request().Context(), c.Param("title_id"), c.Param("review_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(comments, toCommentResponse))
}

// GetComment handles GET .../comments/:comment_id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        title_id    path      string  true  "Title id"
// @Param        review_id   path      string  true  "Review id"
// @Param        comment_id  path      string  true  "Comment id"
// @Success      200         {object}  commentResponse
// @Failure      404         {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [get]
func (h *ReviewHandler) GetComment(c echo.Context) error {
	comment, err := h.service.GetComment(c.Request().Context(),
		c.Param("title_id"), c.Param("review_id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// CreateComment handles POST .../reviews/:review_id/comments.
//
// @Summary      Comment on a review
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id   path      string          true  "Title id"
// @Param        review_id  path      string          true  "Review id"
// @Param        body       body      commentRequest  true  "Comment"
// @Success      201        {object}  commentResponse
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments [post]
func (h *ReviewHandler) CreateComment(c echo.Context) error {
	var req commentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	var text string
	if req.Text != nil {
		text = *req.Text
	}
	comment, err := h.service.CreateComment(c.Request().Context(), middleware.Actor(c),
		c.Param("title_id"), c.Param("review_id"), text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// UpdateComment handles PATCH .../comments/:comment_id.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id    path      string          true  "Title id"
// @Param        review_id   path      string          true  "Review id"
// @Param        comment_id  path      string          true  "Comment id"
// @Param        body        body      commentRequest  true  "Fields to change"
// @Success      200         {object}  commentResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [patch]
func (h *ReviewHandler) UpdateComment(c echo.Context) error {
	var req commentRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	comment, err := h.service.UpdateComment(c.Request().Context(), middleware.Actor(c),
		c.Param("title_id"), c.Param("review_id"), c.Param("comment_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(comment))
}

// DeleteComment handles DELETE .../comments/:comment_id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Security     BearerAuth
// @Param        title_id    path  string  true  "Title id"
// @Param        review_id   path  string  true  "Review id"
// @Param        comment_id  path  string  true  "Comment id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /titles/{title_id}/reviews/{review_id}/comments/{comment_id} [delete]
func (h *ReviewHandler) DeleteComment(c echo.Context) error {
	err := h.service.DeleteComment(c.Request().Context(), middleware.Actor(c),
		c.Param("title_id"), c.Param("review_id"), c.Param("comment_id"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

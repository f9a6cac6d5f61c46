package handler

import (
	"time"

	"github.com/yamdb/api-yamdb/internal/core/domain"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Auth ---

type signupRequest struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email"    validate:"required,max=254,email"`
}

type signupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type tokenRequest struct {
	Username         string `json:"username"          validate:"required"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// --- Users ---

type createUserRequest struct {
	Username  string  `json:"username"   validate:"required,max=150,username"`
	Email     string  `json:"email"      validate:"required,max=254,email"`
	FirstName string  `json:"first_name" validate:"max=150"`
	LastName  string  `json:"last_name"  validate:"max=150"`
	Bio       string  `json:"bio"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

type updateUserRequest struct {
	Username  *string `json:"username"   validate:"omitempty,max=150,username"`
	Email     *string `json:"email"      validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role"       validate:"omitempty,oneof=user moderator admin"`
}

type userResponse struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

// --- Catalog ---

type taxonRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type taxonResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type titleRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,max=256"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"    validate:"omitempty,max=50,slug"`
	Genre       *[]string `json:"genre"       validate:"omitempty,dive,max=50,slug"`
}

type titleResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *float64        `json:"rating"`
	Description string          `json:"description"`
	Genre       []taxonResponse `json:"genre"`
	Category    *taxonResponse  `json:"category"`
}

// --- Reviews ---

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

type reviewResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

type commentResponse struct {
	ID      string    `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

// --- Request → Service input ---

func parseRole(s *string) (*domain.Role, error) {
	if s == nil {
		return nil, nil
	}
	r, err := domain.ParseRole(*s)
	if err != nil {
		return nil, domain.NewFieldError("role", "must be one of: user moderator admin")
	}
	return &r, nil
}

func toCreateUserInput(req createUserRequest) (ports.CreateUserInput, error) {
	role, err := parseRole(req.Role)
	if err != nil {
		return ports.CreateUserInput{}, err
	}
	return ports.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}, nil
}

func toUpdateUserInput(req updateUserRequest) (ports.UpdateUserInput, error) {
	role, err := parseRole(req.Role)
	if err != nil {
		return ports.UpdateUserInput{}, err
	}
	return ports.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}, nil
}

func toTitleInput(req titleRequest) ports.TitleInput {
	return ports.TitleInput{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		Category:    req.Category,
		Genres:      req.Genre,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role.String(),
	}
}

func toTaxonResponse(t domain.Taxon) taxonResponse {
	return taxonResponse{Name: t.Name, Slug: t.Slug}
}

func toTitleResponse(v *domain.TitleView) titleResponse {
	resp := titleResponse{
		ID:          v.ID,
		Name:        v.Name,
		Year:        v.Year,
		Rating:      v.Rating,
		Description: v.Description,
		Genre:       make([]taxonResponse, 0, len(v.Genres)),
	}
	for _, g := range v.Genres {
		resp.Genre = append(resp.Genre, toTaxonResponse(g))
	}
	if v.Category != nil {
		c := toTaxonResponse(*v.Category)
		resp.Category = &c
	}
	return resp
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:      r.ID,
		Text:    r.Text,
		Author:  r.AuthorUsername,
		Score:   r.Score,
		PubDate: r.PubDate,
	}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.AuthorUsername,
		PubDate: c.PubDate,
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/yamdb/api-yamdb/docs"
	"github.com/yamdb/api-yamdb/internal/api/handler"
	"github.com/yamdb/api-yamdb/internal/api/middleware"
	"github.com/yamdb/api-yamdb/internal/core/access"
	"github.com/yamdb/api-yamdb/internal/core/ports"
)

// Deps is everything the HTTP layer needs from the rest of the application.
type Deps struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Catalog ports.CatalogService
	Reviews ports.ReviewService

	Tokens middleware.TokenParser
	Actors middleware.UserLoader

	HealthChecks map[string]handler.HealthCheck
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Metrics())
	e.Use(requestLogger(d.Logger))

	// --- Ops (no auth required) ---
	health := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Confirmation codes (anonymous) ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := e.Group("/api/v1/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/token", authHandler.Token)

	v1 := e.Group("/api/v1", middleware.Auth(d.Tokens, d.Actors))

	// --- Users ---
	users := handler.NewUserHandler(d.Users)
	self := middleware.Authorize(access.ResourceSelf)
	admin := middleware.Authorize(access.ResourceUsers)
	v1.GET("/users/me", users.Me, self)
	v1.PATCH("/users/me", users.UpdateMe, self)
	v1.GET("/users", users.List, admin)
	v1.POST("/users", users.Create, admin)
	v1.GET("/users/:username", users.Get, admin)
	v1.PATCH("/users/:username", users.Update, admin)
	v1.DELETE("/users/:username", users.Delete, admin)

	// --- Catalog ---
	catalog := middleware.Authorize(access.ResourceCatalog)
	for prefix, kind := range map[string]ports.TaxonomyKind{
		"/categories": ports.KindCategory,
		"/genres":     ports.KindGenre,
	} {
		h := handler.NewTaxonomyHandler(d.Catalog, kind)
		v1.GET(prefix, h.List, catalog)
		v1.POST(prefix, h.Create, catalog)
		v1.DELETE(prefix+"/:slug", h.Delete, catalog)
	}

	titles := handler.NewTitleHandler(d.Catalog)
	v1.GET("/titles", titles.List, catalog)
	v1.POST("/titles", titles.Create, catalog)
	v1.GET("/titles/:title_id", titles.Get, catalog)
	v1.PATCH("/titles/:title_id", titles.Update, catalog)
	v1.DELETE("/titles/:title_id", titles.Delete, catalog)

	// --- Reviews & comments ---
	reviews := handler.NewReviewHandler(d.Reviews)
	review := middleware.Authorize(access.ResourceReview)
	const reviewsPath = "/titles/:title_id/reviews"
	v1.GET(reviewsPath, reviews.ListReviews, review)
	v1.POST(reviewsPath, reviews.CreateReview, review)
	v1.GET(reviewsPath+"/:review_id", reviews.GetReview, review)
	v1.PATCH(reviewsPath+"/:review_id", reviews.UpdateReview, review)
	v1.DELETE(reviewsPath+"/:review_id", reviews.DeleteReview, review)

	comment := middleware.Authorize(access.ResourceComment)
	const commentsPath = reviewsPath + "/:review_id/comments"
	v1.GET(commentsPath, reviews.ListComments, comment)
	v1.POST(commentsPath, reviews.CreateComment, comment)
	v1.GET(commentsPath+"/:comment_id", reviews.GetComment, comment)
	v1.PATCH(commentsPath+"/:comment_id", reviews.UpdateComment, comment)
	v1.DELETE(commentsPath+"/:comment_id", reviews.DeleteComment, comment)

	return e
}

// requestLogger writes one zerolog line per request. Errors are rendered
// before logging so the status reflects what the client received.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

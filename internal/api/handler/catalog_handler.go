package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yamdb/api-yamdb/internal/core/ports"
)

// TaxonomyHandler serves one taxonomy: categories or genres.
type TaxonomyHandler struct {
	service ports.CatalogService
	kind    ports.TaxonomyKind
}

func NewTaxonomyHandler(service ports.CatalogService, kind ports.TaxonomyKind) *TaxonomyHandler {
	return &TaxonomyHandler{service: service, kind: kind}
}

// List handles GET /categories and GET /genres.
//
// @Summary      List categories or genres
// @Tags         catalog
// @Produce      json
// @Param        kind  path      string  true  "categories or genres"
// @Success      200   {array}   taxonResponse
// @Router       /{kind} [get]
func (h *TaxonomyHandler) List(c echo.Context) error {
	items, err := h.service.ListTaxonomy(c.Request().Context(), h.kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(items, toTaxonResponse))
}

// Create handles POST /categories and POST /genres.
//
// @Summary      Create a category or genre
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string        true  "categories or genres"
// @Param        body  body      taxonRequest  true  "Name and slug"
// @Success      201   {object}  taxonResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /{kind} [post]
func (h *TaxonomyHandler) Create(c echo.Context) error {
	var req taxonRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	taxon, err := h.service.CreateTaxonomy(c.Request().Context(), h.kind, req.Name, req.Slug)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTaxonResponse(*taxon))
}

// Delete handles DELETE /categories/:slug and DELETE /genres/:slug.
//
// @Summary      Delete a category or genre
// @Tags         catalog
// @Security     BearerAuth
// @Param        kind  path  string  true  "categories or genres"
// @Param        slug  path  string  true  "Slug"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /{kind}/{slug} [delete]
func (h *TaxonomyHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteTaxonomy(c.Request().Context(), h.kind, c.Param("slug")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TitleHandler serves the titles collection.
type TitleHandler struct {
	service ports.CatalogService
}

func NewTitleHandler(service ports.CatalogService) *TitleHandler {
	return &TitleHandler{service: service}
}

// List handles GET /titles.
//
// @Summary      List titles with ratings
// @Tags         titles
// @Produce      json
// @Success      200  {array}  titleResponse
// @Router       /titles [get]
func (h *TitleHandler) List(c echo.Context) error {
	views, err := h.service.ListTitles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, mapSlice(views, toTitleResponse))
}

// Get handles GET /titles/:title_id.
//
// @Summary      Get a title
// @Tags         titles
// @Produce      json
// @Param        title_id  path      string  true  "Title id"
// @Success      200       {object}  titleResponse
// @Failure      404       {object}  errorResponse
// @Router       /titles/{title_id} [get]
func (h *TitleHandler) Get(c echo.Context) error {
	view, err := h.service.GetTitle(c.Request().Context(), c.Param("title_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleResponse(view))
}

// Create handles POST /titles.
//
// @Summary      Create a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      titleRequest  true  "Title"
// @Success      201   {object}  titleResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /titles [post]
func (h *TitleHandler) Create(c echo.Context) error {
	var req titleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	view, err := h.service.CreateTitle(c.Request().Context(), toTitleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTitleResponse(view))
}

// Update handles PATCH /titles/:title_id.
//
// @Summary      Update a title
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id  path      string        true  "Title id"
// @Param        body      body      titleRequest  true  "Fields to change"
// @Success      200       {object}  titleResponse
// @Failure      400       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /titles/{title_id} [patch]
func (h *TitleHandler) Update(c echo.Context) error {
	var req titleRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	view, err := h.service.UpdateTitle(c.Request().Context(), c.Param("title_id"), toTitleInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTitleResponse(view))
}

// Delete handles DELETE /titles/:title_id.
//
// @Summary      Delete a title
// @Tags         titles
// @Security     BearerAuth
// @Param        title_id  path  string  true  "Title id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /titles/{title_id} [delete]
func (h *TitleHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteTitle(c.Request().Context(), c.Param("title_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

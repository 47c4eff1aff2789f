package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/bookwyrm/bookshelf-system/internal/api/metrics"
	"github.com/bookwyrm/bookshelf-system/internal/core/ports"
)

// BookHandler handles HTTP requests for book recommendations. All routes sit
// behind the Auth middleware.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// Create posts a new recommendation.
//
// @Summary      Create a book recommendation
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookRequest  true  "Book details with base64 cover image"
// @Success      201   {object}  apiResponse
// @Failure      400   {object}  apiResponse
// @Failure      401   {object}  apiResponse
// @Failure      502   {object}  apiResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.Create(c.Request().Context(), user, ports.CreateBookInput{
		Title:   req.Title,
		Caption: req.Caption,
		Image:   req.Image,
		Rating:  req.Rating,
	})
	if err != nil {
		return err
	}

	metrics.BooksCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, apiResponse{
		Success: true,
		Message: "Book created successfully",
		Data:    book,
	})
}

// Feed returns one page of the global feed, newest first.
//
// @Summary      List recommendations
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (1-based)"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  apiResponse
// @Failure      401    {object}  apiResponse
// @Router       /api/books [get]
func (h *BookHandler) Feed(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	feed, err := h.service.Feed(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Books fetched successfully",
		Data:    feed,
	})
}

// Mine returns the caller's own recommendations.
//
// @Summary      List own recommendations
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Router       /api/books/user [get]
func (h *BookHandler) Mine(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	books, err := h.service.Mine(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Books fetched successfully",
		Data:    books,
	})
}

// Get returns a single recommendation by id.
//
// @Summary      Get a recommendation
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c echo.Context) error {
	if _, err := ctxUser(c); err != nil {
		return err
	}

	book, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Book fetched successfully",
		Data:    book,
	})
}

// Delete removes one of the caller's recommendations.
//
// @Summary      Delete a recommendation
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  apiResponse
// @Failure      403  {object}  apiResponse
// @Failure      404  {object}  apiResponse
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, apiResponse{
		Success: true,
		Message: "Book deleted successfully",
	})
}

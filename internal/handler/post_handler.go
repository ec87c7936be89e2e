package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
	apperrors "inkwell/internal/errors"
	"inkwell/internal/forms"
	"inkwell/internal/service"
)

// PostHandler serves the post detail page and the admin post management flows.
type PostHandler struct {
	posts service.PostService
	mgr   *auth.Manager
}

// NewPostHandler creates a new post handler.
func NewPostHandler(posts service.PostService, mgr *auth.Manager) *PostHandler {
	return &PostHandler{posts: posts, mgr: mgr}
}

// Show renders a post with its comments and the comment form.
func (h *PostHandler) Show(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Render(http.StatusOK, "post.html", pageData(c, h.mgr, post.Title, echo.Map{
		"Post": post,
		"Form": &forms.CommentForm{},
	}))
}

// NewPage renders the empty post form.
func (h *PostHandler) NewPage(c echo.Context) error {
	return h.renderMakePost(c, "New Post", "/new-post", &forms.PostForm{}, nil)
}

// Create publishes a new post and redirects to the listing.
func (h *PostHandler) Create(c echo.Context) error {
	var form forms.PostForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderMakePost(c, "New Post", "/new-post", &form, forms.Errors(err))
	}

	if _, err := h.posts.Create(c.Request().Context(), auth.CurrentUser(c), &form); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/")
}

// EditPage renders the post form pre-filled with the existing fields.
func (h *PostHandler) EditPage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	form := &forms.PostForm{
		Title:    post.Title,
		Subtitle: post.Subtitle,
		ImgURL:   post.ImgURL,
		Body:     post.Body,
	}
	return h.renderMakePost(c, "Edit Post", fmt.Sprintf("/edit-post/%d", id), form, nil)
}

// Edit overwrites the post fields in place and redirects to the detail page.
func (h *PostHandler) Edit(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var form forms.PostForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderMakePost(c, "Edit Post", fmt.Sprintf("/edit-post/%d", id), &form, forms.Errors(err))
	}

	if _, err := h.posts.Update(c.Request().Context(), id, &form); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", id))
}

// Delete removes a post (admin or its author) and redirects to the listing.
func (h *PostHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), id, auth.CurrentUser(c)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) renderMakePost(c echo.Context, heading, action string, form *forms.PostForm, errs map[string]string) error {
	return c.Render(http.StatusOK, "make-post.html", pageData(c, h.mgr, heading, echo.Map{
		"Heading": heading,
		"Action":  action,
		"Form":    form,
		"Errors":  errs,
	}))
}

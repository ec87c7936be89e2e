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

// CommentHandler serves comment creation and moderation.
type CommentHandler struct {
	comments service.CommentService
	posts    service.PostService
	mgr      *auth.Manager
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(comments service.CommentService, posts service.PostService, mgr *auth.Manager) *CommentHandler {
	return &CommentHandler{comments: comments, posts: posts, mgr: mgr}
}

// Create attaches a comment to the post and redirects back to it, so a
// refresh never re-submits the form.
func (h *CommentHandler) Create(c echo.Context) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var form forms.CommentForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderPostWithErrors(c, postID, &form, forms.Errors(err))
	}

	if _, err := h.comments.Create(c.Request().Context(), postID, auth.CurrentUser(c), form.Body); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
}

// Delete removes a comment (admin or its author) and redirects to the post.
func (h *CommentHandler) Delete(c echo.Context) error {
	postID, err := paramID(c, "post_id")
	if err != nil {
		return err
	}
	commentID, err := paramID(c, "comment_id")
	if err != nil {
		return err
	}

	if err := h.comments.Delete(c.Request().Context(), commentID, auth.CurrentUser(c)); err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", postID))
}

func (h *CommentHandler) renderPostWithErrors(c echo.Context, postID uint, form *forms.CommentForm, errs map[string]string) error {
	post, err := h.posts.Get(c.Request().Context(), postID)
	if err != nil {
		httpErr := apperrors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
	}
	return c.Render(http.StatusOK, "post.html", pageData(c, h.mgr, post.Title, echo.Map{
		"Post":   post,
		"Form":   form,
		"Errors": errs,
	}))
}

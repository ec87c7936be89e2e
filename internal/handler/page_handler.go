package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
	"inkwell/internal/service"
)

// PageHandler serves the post listing and the static pages.
type PageHandler struct {
	posts service.PostService
	mgr   *auth.Manager
}

// NewPageHandler creates a new page handler.
func NewPageHandler(posts service.PostService, mgr *auth.Manager) *PageHandler {
	return &PageHandler{posts: posts, mgr: mgr}
}

// Index renders the post listing, newest first.
func (h *PageHandler) Index(c echo.Context) error {
	posts, err := h.posts.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "index.html", pageData(c, h.mgr, "Home", echo.Map{
		"Posts": posts,
	}))
}

// About renders the about page.
func (h *PageHandler) About(c echo.Context) error {
	return c.Render(http.StatusOK, "about.html", pageData(c, h.mgr, "About", nil))
}

// Contact renders the contact page.
func (h *PageHandler) Contact(c echo.Context) error {
	return c.Render(http.StatusOK, "contact.html", pageData(c, h.mgr, "Contact", nil))
}

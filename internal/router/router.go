package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"inkwell/internal/auth"
	"inkwell/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	mgr *auth.Manager,
	pageHandler *handler.PageHandler,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.HTTPErrorHandler = errorPageHandler(mgr)

	// Session identification runs on every route; guards only where needed.
	e.Use(mgr.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/", pageHandler.Index)
	e.GET("/about", pageHandler.About)
	e.GET("/contact", pageHandler.Contact)

	e.GET("/register", authHandler.RegisterPage)
	e.POST("/register", authHandler.Register)
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)

	e.GET("/post/:id", postHandler.Show)
	e.POST("/post/:id", commentHandler.Create, auth.LoginRequired)

	e.GET("/new-post", postHandler.NewPage, auth.LoginRequired, auth.AdminOnly)
	e.POST("/new-post", postHandler.Create, auth.LoginRequired, auth.AdminOnly)
	e.GET("/edit-post/:id", postHandler.EditPage, auth.LoginRequired, auth.AdminOnly)
	e.POST("/edit-post/:id", postHandler.Edit, auth.LoginRequired, auth.AdminOnly)
	e.GET("/delete/:id", postHandler.Delete, auth.LoginRequired)

	e.GET("/delete-comment/:post_id/:comment_id", commentHandler.Delete, auth.LoginRequired)
}

// errorPageHandler renders errors as HTML pages instead of echo's default
// JSON body. The 403 page carries no message.
func errorPageHandler(mgr *auth.Manager) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Something went wrong."
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		}
		if status == http.StatusForbidden {
			message = ""
		}

		if renderErr := c.Render(status, "error.html", echo.Map{
			"Title":   http.StatusText(status),
			"Status":  status,
			"Message": message,
			"User":    auth.CurrentUser(c),
		}); renderErr != nil {
			c.Logger().Error(renderErr)
			_ = c.NoContent(status)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"inkwell/internal/auth"
	"inkwell/internal/forms"
	"inkwell/internal/service"
)

// loginFailedMessage is shown for unknown emails and wrong passwords alike so
// the two cases stay indistinguishable.
const loginFailedMessage = "Either this email doesn't exist, or the password entered was incorrect."

// AuthHandler serves registration, login and logout.
type AuthHandler struct {
	authService service.AuthService
	mgr         *auth.Manager
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, mgr *auth.Manager) *AuthHandler {
	return &AuthHandler{authService: authService, mgr: mgr}
}

// RegisterPage renders the registration form. Logged-in users are sent home.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	if auth.IsLoggedIn(c) {
		return c.Redirect(http.StatusFound, "/")
	}
	return h.renderRegister(c, &forms.RegisterForm{}, nil)
}

// Register handles a registration submission.
func (h *AuthHandler) Register(c echo.Context) error {
	if auth.IsLoggedIn(c) {
		return c.Redirect(http.StatusFound, "/")
	}

	var form forms.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderRegister(c, &form, forms.Errors(err))
	}

	user, err := h.authService.Register(c.Request().Context(), form.Name, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			// Send the visitor to login with the email pre-filled.
			h.mgr.Flash(c, "This email is already in use.")
			h.mgr.StashLoginEmail(c, form.Email)
			return c.Redirect(http.StatusFound, "/login")
		}
		return err
	}

	if err := h.mgr.StartSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, auth.NextPage(c))
}

// LoginPage renders the login form, consuming any stashed prefill email from
// a duplicate registration attempt.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	form := &forms.LoginForm{Email: h.mgr.ConsumeLoginEmail(c)}
	return h.renderLogin(c, form, nil)
}

// Login handles a login submission.
func (h *AuthHandler) Login(c echo.Context) error {
	var form forms.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLogin(c, &form, forms.Errors(err))
	}

	user, err := h.authService.Login(c.Request().Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.mgr.Flash(c, loginFailedMessage)
			form.Password = ""
			return h.renderLogin(c, &form, nil)
		}
		return err
	}

	if err := h.mgr.StartSession(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, auth.NextPage(c))
}

// Logout ends the session, if any, and redirects to the next page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if auth.IsLoggedIn(c) {
		h.mgr.EndSession(c)
	}
	return c.Redirect(http.StatusFound, auth.NextPage(c))
}

func (h *AuthHandler) renderRegister(c echo.Context, form *forms.RegisterForm, errs map[string]string) error {
	return c.Render(http.StatusOK, "register.html", pageData(c, h.mgr, "Register", echo.Map{
		"Form":   form,
		"Errors": errs,
		"Next":   c.QueryParam("next"),
	}))
}

func (h *AuthHandler) renderLogin(c echo.Context, form *forms.LoginForm, errs map[string]string) error {
	return c.Render(http.StatusOK, "login.html", pageData(c, h.mgr, "Log In", echo.Map{
		"Form":   form,
		"Errors": errs,
		"Next":   c.QueryParam("next"),
	}))
}

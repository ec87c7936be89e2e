package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "inkwell_session"
	// BrowserCookie carries an anonymous id keying flashes and the login
	// prefill; it identifies a browser, not a user.
	BrowserCookie = "inkwell_bid"

	userContextKey    = "auth.user"
	browserContextKey = "auth.browser_id"
)

// Manager wires session cookies, the revocation/flash store and the user
// repository into echo middleware and helpers for handlers.
type Manager struct {
	tokens *TokenService
	store  SessionStoreInterface
	users  repository.UserRepository
	log    *logrus.Logger
}

// NewManager creates a session manager.
func NewManager(tokens *TokenService, store SessionStoreInterface, users repository.UserRepository, log *logrus.Logger) *Manager {
	return &Manager{tokens: tokens, store: store, users: users, log: log}
}

// Middleware identifies the requesting user from the session cookie, if any,
// and guarantees a browser id cookie. It never rejects a request; guards do.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.ensureBrowserID(c)

			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			claims, err := m.tokens.Validate(cookie.Value)
			if err != nil {
				m.clearSessionCookie(c)
				return next(c)
			}

			if revoked, _ := m.store.IsSessionRevoked(c.Request().Context(), claims.ID); revoked {
				m.clearSessionCookie(c)
				return next(c)
			}

			user, err := m.users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				// Account deleted since the cookie was minted.
				m.clearSessionCookie(c)
				return next(c)
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// LoginRequired redirects anonymous requests to the login page, preserving
// the original path in the next parameter.
func LoginRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !IsLoggedIn(c) {
			target := "/login?next=" + url.QueryEscape(c.Request().URL.RequestURI())
			return c.Redirect(http.StatusFound, target)
		}
		return next(c)
	}
}

// AdminOnly aborts with 403 unless the current user is an administrator. No
// message is shown on this path.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden)
		}
		return next(c)
	}
}

// StartSession mints a session token for the user and sets the cookie.
func (m *Manager) StartSession(c echo.Context, user *model.User) error {
	_, token, err := m.tokens.Mint(user)
	if err != nil {
		return err
	}
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(SessionExpiry),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(userContextKey, user)
	return nil
}

// EndSession revokes the current session server-side and clears the cookie.
func (m *Manager) EndSession(c echo.Context) {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if claims, err := m.tokens.Validate(cookie.Value); err == nil {
			ttl := time.Until(claims.ExpiresAt.Time)
			if ttl > 0 {
				if err := m.store.RevokeSession(c.Request().Context(), claims.ID, ttl); err != nil {
					m.log.WithError(err).Warn("revoke session")
				}
			}
		}
	}
	m.clearSessionCookie(c)
	c.Set(userContextKey, nil)
}

// Flash records a one-shot message for the requesting browser.
func (m *Manager) Flash(c echo.Context, message string) {
	if err := m.store.AddFlash(c.Request().Context(), browserID(c), message); err != nil {
		m.log.WithError(err).Warn("store flash")
	}
}

// ConsumeFlashes returns and clears pending messages for the browser.
func (m *Manager) ConsumeFlashes(c echo.Context) []string {
	messages, _ := m.store.ConsumeFlashes(c.Request().Context(), browserID(c))
	return messages
}

// StashLoginEmail saves an email for one-time prefill of the login form.
func (m *Manager) StashLoginEmail(c echo.Context, email string) {
	if err := m.store.StashLoginEmail(c.Request().Context(), browserID(c), email); err != nil {
		m.log.WithError(err).Warn("stash login email")
	}
}

// ConsumeLoginEmail returns the stashed prefill email, at most once.
func (m *Manager) ConsumeLoginEmail(c echo.Context) string {
	email, _ := m.store.ConsumeLoginEmail(c.Request().Context(), browserID(c))
	return email
}

// CurrentUser returns the authenticated user for this request, or nil.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}

// IsLoggedIn reports whether the request carries a valid session.
func IsLoggedIn(c echo.Context) bool {
	return CurrentUser(c) != nil
}

// NextPage returns the redirect target after login/logout. The next query
// parameter is honored only when it is a relative path on this host; anything
// carrying a scheme or host falls back to the posts listing (open-redirect
// protection).
func NextPage(c echo.Context) string {
	next := c.QueryParam("next")
	if next == "" {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}

func (m *Manager) ensureBrowserID(c echo.Context) {
	if cookie, err := c.Cookie(BrowserCookie); err == nil && cookie.Value != "" {
		c.Set(browserContextKey, cookie.Value)
		return
	}
	id := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     BrowserCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(browserContextKey, id)
}

func (m *Manager) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func browserID(c echo.Context) string {
	id, _ := c.Get(browserContextKey).(string)
	return id
}

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inkwell/internal/model"
)

// fakeSessionStore is an in-memory SessionStoreInterface for tests.
type fakeSessionStore struct {
	mu       sync.Mutex
	revoked  map[string]bool
	flashes  map[string][]string
	prefills map[string]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		revoked:  make(map[string]bool),
		flashes:  make(map[string][]string),
		prefills: make(map[string]string),
	}
}

func (f *fakeSessionStore) RevokeSession(_ context.Context, tokenID string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = true
	return nil
}

func (f *fakeSessionStore) IsSessionRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[tokenID], nil
}

func (f *fakeSessionStore) AddFlash(_ context.Context, browserID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flashes[browserID] = append(f.flashes[browserID], message)
	return nil
}

func (f *fakeSessionStore) ConsumeFlashes(_ context.Context, browserID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := f.flashes[browserID]
	delete(f.flashes, browserID)
	return messages, nil
}

func (f *fakeSessionStore) StashLoginEmail(_ context.Context, browserID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prefills[browserID] = email
	return nil
}

func (f *fakeSessionStore) ConsumeLoginEmail(_ context.Context, browserID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := f.prefills[browserID]
	delete(f.prefills, browserID)
	return email, nil
}

// mockUserRepo mocks repository.UserRepository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestManager(users *mockUserRepo) (*Manager, *fakeSessionStore) {
	store := newFakeSessionStore()
	log := logrus.New()
	return NewManager(NewTokenService("test-secret"), store, users, log), store
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNextPage(t *testing.T) {
	tests := []struct {
		name     string
		next     string
		expected string
	}{
		{"no next parameter", "", "/"},
		{"relative path", "/post/3", "/post/3"},
		{"relative path with query", "/post/3%3Ffrom%3Dhome", "/post/3?from=home"},
		{"absolute url to foreign host", "http://evil.example/steal", "/"},
		{"https url to foreign host", "https://evil.example/", "/"},
		{"protocol-relative url", "//evil.example/steal", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/login"
			if tt.next != "" {
				target += "?next=" + tt.next
			}
			c, _ := newContext(http.MethodGet, target)
			assert.Equal(t, tt.expected, NextPage(c))
		})
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := &model.User{ID: 42, Email: "a@b.c", Role: model.RoleAdmin}

	tokenID, token, err := svc.Mint(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, tokenID, claims.ID)

	_, err = NewTokenService("other-secret").Validate(token)
	assert.Error(t, err)
}

func TestMiddlewareIdentifiesUser(t *testing.T) {
	users := new(mockUserRepo)
	user := &model.User{ID: 5, Email: "u@example.com", Role: model.RoleUser}
	users.On("FindByID", mock.Anything, uint(5)).Return(user, nil)

	mgr, _ := newTestManager(users)
	_, token, err := NewTokenService("test-secret").Mint(user)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mgr.Middleware()(func(c echo.Context) error {
		assert.True(t, IsLoggedIn(c))
		assert.Equal(t, uint(5), CurrentUser(c).ID)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestMiddlewareAnonymousWithoutCookie(t *testing.T) {
	mgr, _ := newTestManager(new(mockUserRepo))

	c, _ := newContext(http.MethodGet, "/")
	handler := mgr.Middleware()(func(c echo.Context) error {
		assert.False(t, IsLoggedIn(c))
		assert.Nil(t, CurrentUser(c))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestMiddlewareRejectsRevokedSession(t *testing.T) {
	users := new(mockUserRepo)
	user := &model.User{ID: 5, Email: "u@example.com"}

	mgr, store := newTestManager(users)
	tokenID, token, err := NewTokenService("test-secret").Mint(user)
	require.NoError(t, err)
	require.NoError(t, store.RevokeSession(context.Background(), tokenID, time.Hour))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mgr.Middleware()(func(c echo.Context) error {
		assert.False(t, IsLoggedIn(c))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMiddlewareDropsDeletedAccount(t *testing.T) {
	users := new(mockUserRepo)
	users.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	mgr, _ := newTestManager(users)
	_, token, err := NewTokenService("test-secret").Mint(&model.User{ID: 5})
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mgr.Middleware()(func(c echo.Context) error {
		assert.False(t, IsLoggedIn(c))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
}

func TestLoginRequiredRedirects(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/new-post")
	handler := LoginRequired(func(c echo.Context) error {
		t.Fatal("handler must not run for anonymous request")
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?next=%2Fnew-post", rec.Header().Get("Location"))
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name       string
		user       *model.User
		wantStatus int
	}{
		{"anonymous", nil, http.StatusForbidden},
		{"regular user", &model.User{ID: 2, Role: model.RoleUser}, http.StatusForbidden},
		{"admin", &model.User{ID: 1, Role: model.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/new-post")
			if tt.user != nil {
				c.Set(userContextKey, tt.user)
			}

			handler := AdminOnly(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			err := handler(c)

			if tt.wantStatus == http.StatusForbidden {
				var httpErr *echo.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusForbidden, httpErr.Code)
			} else {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestFlashAndPrefillConsumeOnce(t *testing.T) {
	mgr, _ := newTestManager(new(mockUserRepo))

	c, _ := newContext(http.MethodGet, "/")
	c.Set(browserContextKey, "browser-1")

	mgr.Flash(c, "This email is already in use.")
	mgr.StashLoginEmail(c, "dupe@example.com")

	assert.Equal(t, []string{"This email is already in use."}, mgr.ConsumeFlashes(c))
	assert.Empty(t, mgr.ConsumeFlashes(c))

	assert.Equal(t, "dupe@example.com", mgr.ConsumeLoginEmail(c))
	assert.Empty(t, mgr.ConsumeLoginEmail(c))
}

func TestEndSessionRevokes(t *testing.T) {
	users := new(mockUserRepo)
	user := &model.User{ID: 5, Email: "u@example.com"}
	mgr, store := newTestManager(users)

	tokens := NewTokenService("test-secret")
	tokenID, token, err := tokens.Mint(user)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mgr.EndSession(c)

	revoked, _ := store.IsSessionRevoked(context.Background(), tokenID)
	assert.True(t, revoked)
	// The cookie is cleared in the response.
	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookie && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

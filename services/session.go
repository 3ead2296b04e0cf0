// ABOUTME: Session lifecycle for the catalog console
// ABOUTME: Coordinates login, logout, product fetches, and selection over a token store and view store

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/tokenstore"
)

var (
	// ErrNotAuthenticated is returned for operations that need a live session
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnknownProduct is returned when selecting an id not in the list
	ErrUnknownProduct = errors.New("product not in list")
	// ErrSessionExpired is returned when the API issues an already-expired session
	ErrSessionExpired = errors.New("session already expired")
	// ErrViewStore wraps failures to write view state
	ErrViewStore = errors.New("view store unavailable")
)

// SessionManager drives the console state for one token store at a time.
// It keeps no per-session state itself; tokens live in the store passed to
// each call and views live in the ViewStore.
type SessionManager struct {
	api        CatalogAPI
	views      ViewStore
	defaultTTL time.Duration
	now        func() time.Time
}

func NewSessionManager(api CatalogAPI, views ViewStore, defaultTTL time.Duration) *SessionManager {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &SessionManager{
		api:        api,
		views:      views,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// Login signs in, persists the token, and fetches the product list once.
// A failed fetch still leaves the view authenticated with an empty list.
func (m *SessionManager) Login(ctx context.Context, tokens tokenstore.Store, creds models.Credentials) (*models.View, error) {
	resp, err := m.api.Signin(ctx, creds)
	if err != nil {
		slog.Warn("Login failed", "username", creds.Username, "error", err)
		m.signOut(ctx, tokens)
		return models.NewView(), err
	}

	now := m.now()
	expiresAt := SessionExpiry(resp, now, m.defaultTTL)
	if !expiresAt.After(now) {
		slog.Warn("Login returned an expired session", "username", creds.Username, "expires_at", expiresAt)
		m.signOut(ctx, tokens)
		return models.NewView(), ErrSessionExpired
	}

	if prev, err := tokens.Load(ctx); err == nil && prev.Token != resp.Token {
		m.dropView(ctx, prev.Token)
	}

	session := models.Session{Token: resp.Token, ExpiresAt: expiresAt}
	if err := tokens.Save(ctx, session); err != nil {
		return models.NewView(), fmt.Errorf("failed to save session: %w", err)
	}

	view := models.NewView()
	view.Authenticate()
	view.ExpiresAt = expiresAt
	slog.Info("Login succeeded", "username", creds.Username, "expires_at", expiresAt)

	m.fetchInto(ctx, session, view)

	// Without a stored view the token would not resolve, so it is not kept
	if err := m.persist(ctx, session.Token, view); err != nil {
		slog.Error("Login could not store the view", "username", creds.Username, "error", err)
		m.expire(ctx, tokens, session.Token)
		return models.NewView(), err
	}
	return view, nil
}

// CheckLogin asks the API whether the stored token is still accepted and
// logs the answer. It never changes the view.
func (m *SessionManager) CheckLogin(ctx context.Context, tokens tokenstore.Store) (*models.CheckResponse, error) {
	session, err := tokens.Load(ctx)
	if err != nil {
		slog.Info("Login check skipped", "reason", err)
		return nil, err
	}

	resp, err := m.api.Check(ctx, session)
	if err != nil {
		slog.Warn("Login check failed", "error", err)
		return resp, err
	}
	slog.Info("Login check succeeded", "uid", resp.UID)
	return resp, nil
}

// Logout expires the token and drops the view. Calling it without a session is a no-op.
func (m *SessionManager) Logout(ctx context.Context, tokens tokenstore.Store) (*models.View, error) {
	if session, err := tokens.Load(ctx); err == nil {
		m.dropView(ctx, session.Token)
	}
	if err := tokens.Clear(ctx); err != nil {
		return models.NewView(), fmt.Errorf("failed to clear session: %w", err)
	}
	slog.Info("Logged out")
	return models.NewView(), nil
}

// GetProducts refetches the list. On failure the previous list is kept.
func (m *SessionManager) GetProducts(ctx context.Context, tokens tokenstore.Store) (*models.View, error) {
	session, view, err := m.load(ctx, tokens)
	if err != nil {
		return view, err
	}

	resp, err := m.api.AdminProducts(ctx, session)
	if err != nil {
		slog.Warn("Product fetch failed", "error", err)
		return view, err
	}
	view.ReplaceProducts(resp.Products, resp.Pagination)
	slog.Debug("Products fetched", "count", len(resp.Products))

	return view, m.persist(ctx, session.Token, view)
}

// Select points the detail panel at id.
func (m *SessionManager) Select(ctx context.Context, tokens tokenstore.Store, id models.ProductID) (*models.View, error) {
	session, view, err := m.load(ctx, tokens)
	if err != nil {
		return view, err
	}
	if !view.Select(id) {
		return view, fmt.Errorf("%w: %s", ErrUnknownProduct, id)
	}
	return view, m.persist(ctx, session.Token, view)
}

// ClearSelection returns the detail panel to its placeholder.
func (m *SessionManager) ClearSelection(ctx context.Context, tokens tokenstore.Store) (*models.View, error) {
	session, view, err := m.load(ctx, tokens)
	if err != nil {
		return view, err
	}
	view.ClearSelection()
	return view, m.persist(ctx, session.Token, view)
}

// Current returns the view for the presented token. A missing or expired
// session yields the initial unauthenticated view.
func (m *SessionManager) Current(ctx context.Context, tokens tokenstore.Store) (*models.View, error) {
	_, view, err := m.load(ctx, tokens)
	if errors.Is(err, ErrNotAuthenticated) {
		return view, nil
	}
	return view, err
}

// Resume restores a view for a stored token that has no view yet, as happens
// when the terminal browser starts with a token file from an earlier run. The
// token is verified with Check before the single product fetch. Tokens the API
// rejects are cleared.
func (m *SessionManager) Resume(ctx context.Context, tokens tokenstore.Store) (*models.View, error) {
	session, err := tokens.Load(ctx)
	if errors.Is(err, tokenstore.ErrNoSession) {
		return models.NewView(), ErrNotAuthenticated
	}
	if err != nil {
		return models.NewView(), fmt.Errorf("failed to load session: %w", err)
	}
	if session.Expired(m.now()) {
		m.expire(ctx, tokens, session.Token)
		return models.NewView(), ErrNotAuthenticated
	}

	if view, err := m.views.Get(ctx, ViewKey(session.Token)); err == nil {
		return view, nil
	}

	if _, err := m.api.Check(ctx, session); err != nil {
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			slog.Info("Stored session rejected", "status", apiErr.Status)
			m.expire(ctx, tokens, session.Token)
			return models.NewView(), ErrNotAuthenticated
		}
		return models.NewView(), err
	}

	view := models.NewView()
	view.Authenticate()
	view.ExpiresAt = session.ExpiresAt
	if view.ExpiresAt.IsZero() {
		view.ExpiresAt = m.now().Add(m.defaultTTL)
	}
	m.fetchInto(ctx, session, view)
	slog.Info("Session resumed", "expires_at", view.ExpiresAt)

	return view, m.persist(ctx, session.Token, view)
}

// load resolves the stored token to its view. Stale tokens are cleared.
func (m *SessionManager) load(ctx context.Context, tokens tokenstore.Store) (models.Session, *models.View, error) {
	session, err := tokens.Load(ctx)
	if errors.Is(err, tokenstore.ErrNoSession) {
		return models.Session{}, models.NewView(), ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, models.NewView(), fmt.Errorf("failed to load session: %w", err)
	}

	now := m.now()
	if session.Expired(now) {
		slog.Debug("Stored session expired", "expires_at", session.ExpiresAt)
		m.expire(ctx, tokens, session.Token)
		return models.Session{}, models.NewView(), ErrNotAuthenticated
	}

	view, err := m.views.Get(ctx, ViewKey(session.Token))
	if errors.Is(err, ErrViewNotFound) {
		m.expire(ctx, tokens, session.Token)
		return models.Session{}, models.NewView(), ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, models.NewView(), fmt.Errorf("failed to load view: %w", err)
	}
	if !view.ExpiresAt.IsZero() && !now.Before(view.ExpiresAt) {
		m.expire(ctx, tokens, session.Token)
		return models.Session{}, models.NewView(), ErrNotAuthenticated
	}
	if session.ExpiresAt.IsZero() {
		session.ExpiresAt = view.ExpiresAt
	}
	return session, view, nil
}

// fetchInto performs the single post-login fetch. Failures are logged only.
func (m *SessionManager) fetchInto(ctx context.Context, session models.Session, view *models.View) {
	resp, err := m.api.AdminProducts(ctx, session)
	if err != nil {
		slog.Warn("Product fetch after login failed", "error", err)
		return
	}
	view.ReplaceProducts(resp.Products, resp.Pagination)
}

func (m *SessionManager) persist(ctx context.Context, token string, view *models.View) error {
	ttl := m.defaultTTL
	if !view.ExpiresAt.IsZero() {
		ttl = view.ExpiresAt.Sub(m.now())
	}
	if ttl <= 0 {
		return ErrSessionExpired
	}
	if err := m.views.Put(ctx, ViewKey(token), view, ttl); err != nil {
		return fmt.Errorf("%w: %w", ErrViewStore, err)
	}
	return nil
}

func (m *SessionManager) expire(ctx context.Context, tokens tokenstore.Store, token string) {
	m.dropView(ctx, token)
	if err := tokens.Clear(ctx); err != nil {
		slog.Warn("Failed to clear stale session", "error", err)
	}
}

// signOut returns the store to the unauthenticated state after a failed login.
func (m *SessionManager) signOut(ctx context.Context, tokens tokenstore.Store) {
	prev, err := tokens.Load(ctx)
	if errors.Is(err, tokenstore.ErrNoSession) {
		return
	}
	m.expire(ctx, tokens, prev.Token)
}

func (m *SessionManager) dropView(ctx context.Context, token string) {
	if err := m.views.Delete(ctx, ViewKey(token)); err != nil {
		slog.Warn("Failed to delete view", "error", err)
	}
}

// ABOUTME: JSON API over the session manager
// ABOUTME: Exposes login, logout, login check, product refresh, and selection as /api/v1 endpoints

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
	"github.com/storeops/catalog-console/tokenstore"
)

// GetView returns the view for the session cookie.
func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Current(r.Context(), h.tokens(w, r))
	if err != nil {
		h.writeError(w, "Failed to load session", statusFor(err))
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// Login signs in with a JSON {username, password} body.
// Rejected credentials answer 401 with the unauthenticated view.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		h.writeError(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	view, err := h.sessions.Login(r.Context(), h.tokens(w, r), creds)
	if errors.Is(err, services.ErrViewStore) {
		h.writeError(w, "Failed to store session", http.StatusInternalServerError)
		return
	}
	if err != nil {
		h.writeJSON(w, http.StatusUnauthorized, view)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// CheckLogin asks the remote API whether the session token is still valid.
// The view is never changed.
func (h *Handler) CheckLogin(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessions.CheckLogin(r.Context(), h.tokens(w, r))
	var apiErr *models.APIError
	switch {
	case err == nil:
		h.writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, tokenstore.ErrNoSession):
		h.writeError(w, "Not authenticated", http.StatusUnauthorized)
	case errors.As(err, &apiErr):
		h.writeJSON(w, http.StatusOK, models.CheckResponse{Success: false, Message: apiErr.Message})
	default:
		h.writeError(w, "Login check failed", statusFor(err))
	}
}

// Logout expires the session cookie and returns the empty view.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Logout(r.Context(), h.tokens(w, r))
	if err != nil {
		h.writeError(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// RefreshProducts refetches the product list.
func (h *Handler) RefreshProducts(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.GetProducts(r.Context(), h.tokens(w, r))
	if err != nil {
		h.writeError(w, "Failed to fetch products", statusFor(err))
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// SelectProduct points the detail panel at {id}.
func (h *Handler) SelectProduct(w http.ResponseWriter, r *http.Request) {
	id := models.ProductID(r.PathValue("id"))
	view, err := h.sessions.Select(r.Context(), h.tokens(w, r), id)
	if err != nil {
		h.writeError(w, selectErrorMessage(err), statusFor(err))
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// ClearSelection returns the detail panel to its placeholder.
func (h *Handler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.ClearSelection(r.Context(), h.tokens(w, r))
	if err != nil {
		h.writeError(w, "Failed to clear selection", statusFor(err))
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func selectErrorMessage(err error) string {
	if statusFor(err) == http.StatusNotFound {
		return "Product not found"
	}
	return "Failed to select product"
}

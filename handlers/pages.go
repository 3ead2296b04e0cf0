// ABOUTME: Server-rendered HTML console
// ABOUTME: Renders the login form or the product list with its detail panel

package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/storeops/catalog-console/middleware"
	"github.com/storeops/catalog-console/models"
	"github.com/storeops/catalog-console/services"
)

//go:embed templates/console.html
var templateFS embed.FS

var consoleTemplate = template.Must(template.ParseFS(templateFS, "templates/console.html"))

type pageData struct {
	View      *models.View
	Selected  *models.Product
	CSRFToken string
	Username  string
}

// Console renders the page for the current session.
func (h *Handler) Console(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Current(r.Context(), h.tokens(w, r))
	if err != nil {
		slog.Error("Failed to load view", "error", err)
		view = models.NewView()
	}
	h.render(w, r, http.StatusOK, view, "")
}

// LoginForm handles the login form. Failures re-render the form with the
// username kept and no error text.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	if creds.Username == "" || creds.Password == "" {
		h.render(w, r, http.StatusBadRequest, models.NewView(), creds.Username)
		return
	}

	view, err := h.sessions.Login(r.Context(), h.tokens(w, r), creds)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, services.ErrViewStore) {
			status = http.StatusInternalServerError
		}
		h.render(w, r, status, view, creds.Username)
		return
	}
	redirectHome(w, r)
}

// CheckForm runs the login check. The outcome is only logged.
func (h *Handler) CheckForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.CheckLogin(r.Context(), h.tokens(w, r)); err != nil {
		slog.Debug("Login check from console failed", "error", err)
	}
	redirectHome(w, r)
}

func (h *Handler) LogoutForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Logout(r.Context(), h.tokens(w, r)); err != nil {
		slog.Error("Logout failed", "error", err)
	}
	redirectHome(w, r)
}

func (h *Handler) SelectForm(w http.ResponseWriter, r *http.Request) {
	id := models.ProductID(r.PathValue("id"))
	if _, err := h.sessions.Select(r.Context(), h.tokens(w, r), id); err != nil {
		slog.Debug("Selection ignored", "id", id, "error", err)
	}
	redirectHome(w, r)
}

func (h *Handler) RefreshForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.GetProducts(r.Context(), h.tokens(w, r)); err != nil {
		slog.Debug("Refresh from console failed", "error", err)
	}
	redirectHome(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view *models.View, username string) {
	data := pageData{
		View:      view,
		Selected:  view.SelectedProduct(),
		CSRFToken: middleware.CSRFToken(r),
		Username:  username,
	}

	var buf bytes.Buffer
	if err := consoleTemplate.Execute(&buf, data); err != nil {
		slog.Error("Failed to render console", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

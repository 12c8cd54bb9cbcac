package handler

import (
	"net/http"

	"github.com/cafesang/storefront/internal/enum"
)

// ThemeHandler persists the light/dark preference.
type ThemeHandler struct{}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler() *ThemeHandler {
	return &ThemeHandler{}
}

// Set handles POST /theme. The cookie is readable by scripts so the page
// can apply the theme before first paint.
func (h *ThemeHandler) Set(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	theme := r.FormValue("theme")
	if theme != enum.ThemeLight && theme != enum.ThemeDark {
		http.Error(w, "invalid theme", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		SameSite: http.SameSiteLaxMode,
		HttpOnly: false,
	})
	http.Redirect(w, r, localPath(r.FormValue("redirect")), http.StatusSeeOther)
}

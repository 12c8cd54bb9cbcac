package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cafesang/storefront/internal/enum"
	"github.com/cafesang/storefront/internal/menuapi"
)

const themeCookie = "theme"

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// menuStatus maps a menu read failure to a status code: upstream failures
// are 502, anything else 500.
func menuStatus(err error) int {
	if errors.Is(err, menuapi.ErrUnavailable) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// themeFromRequest returns the visitor's theme, defaulting to light.
func themeFromRequest(r *http.Request) string {
	c, err := r.Cookie(themeCookie)
	if err == nil && c.Value == enum.ThemeDark {
		return enum.ThemeDark
	}
	return enum.ThemeLight
}

// localPath accepts only same-site absolute paths, so form-supplied
// redirect targets cannot point elsewhere.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}

package api

import (
	"net/http"

	"github.com/phrazzld/memorybook/internal/api/shared"
	"github.com/phrazzld/memorybook/internal/theme"
)

// ThemeHandler serves the layout and color theme catalog.
type ThemeHandler struct {
	registry *theme.Registry
}

// NewThemeHandler creates a new ThemeHandler
func NewThemeHandler(registry *theme.Registry) *ThemeHandler {
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("theme registry cannot be nil for ThemeHandler")
	}
	return &ThemeHandler{registry: registry}
}

// ListThemes handles GET /api/themes requests
func (h *ThemeHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, ThemesResponse{
		Layouts:     h.registry.Layouts(),
		ColorThemes: h.registry.ColorThemes(),
	})
}

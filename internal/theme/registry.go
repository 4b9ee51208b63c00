// Package theme holds the catalog of layout templates and cover color themes.
//
// The Registry is built once with NewRegistry and handed to the renderer by
// pointer. It is immutable after construction and safe for concurrent use.
// Lookups never fail: unknown ids resolve to the default entry.
package theme

// Default ids used when a lookup misses.
const (
	DefaultLayoutID     = "classic"
	DefaultColorThemeID = "cream"
)

// Styles are the per-layout style rules consumed by the renderer. Values are
// CSS fragments; the registry does not interpret them.
type Styles struct {
	FontFamily      string
	HeadingFont     string
	PageBackground  string
	TextColor       string
	AccentColor     string
	Border          string
	BorderRadius    string
	PagePadding     string
	PhotoFrame      string
	CaptionSize     string
	CaptionStyle    string
	BadgeBackground string
	BadgeColor      string
}

// LayoutTemplate is a named visual style applied uniformly to every page.
type LayoutTemplate struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Styles      Styles `json:"-"`
}

// ColorTheme is a background/foreground pair applied to the cover only.
type ColorTheme struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Background  string `json:"background_color"`
	Foreground  string `json:"foreground_color"`
}

// Registry is the immutable lookup table of layouts and color themes.
type Registry struct {
	layouts      []LayoutTemplate
	colorThemes  []ColorTheme
	layoutIndex  map[string]int
	colorIndex   map[string]int
	defaultLayID string
	defaultColID string
}

// NewRegistry builds the registry from the built-in catalog.
func NewRegistry() *Registry {
	r := &Registry{
		layouts:      builtinLayouts(),
		colorThemes:  builtinColorThemes(),
		defaultLayID: DefaultLayoutID,
		defaultColID: DefaultColorThemeID,
	}

	r.layoutIndex = make(map[string]int, len(r.layouts))
	for i, l := range r.layouts {
		r.layoutIndex[l.ID] = i
	}
	r.colorIndex = make(map[string]int, len(r.colorThemes))
	for i, c := range r.colorThemes {
		r.colorIndex[c.ID] = i
	}

	return r
}

// Layout returns the layout template with the given id, or the default layout.
func (r *Registry) Layout(id string) LayoutTemplate {
	if i, ok := r.layoutIndex[id]; ok {
		return r.layouts[i]
	}
	return r.layouts[r.layoutIndex[r.defaultLayID]]
}

// LayoutStyles returns the style rules of the given layout, falling back to
// the default layout's rules.
func (r *Registry) LayoutStyles(id string) Styles {
	return r.Layout(id).Styles
}

// ColorTheme returns the color theme with the given id, or the default theme.
func (r *Registry) ColorTheme(id string) ColorTheme {
	if i, ok := r.colorIndex[id]; ok {
		return r.colorThemes[i]
	}
	return r.colorThemes[r.colorIndex[r.defaultColID]]
}

// HasLayout reports whether id names a known layout.
func (r *Registry) HasLayout(id string) bool {
	_, ok := r.layoutIndex[id]
	return ok
}

// HasColorTheme reports whether id names a known color theme.
func (r *Registry) HasColorTheme(id string) bool {
	_, ok := r.colorIndex[id]
	return ok
}

// Layouts returns the layout catalog in display order.
func (r *Registry) Layouts() []LayoutTemplate {
	return append([]LayoutTemplate(nil), r.layouts...)
}

// ColorThemes returns the color theme catalog in display order.
func (r *Registry) ColorThemes() []ColorTheme {
	return append([]ColorTheme(nil), r.colorThemes...)
}

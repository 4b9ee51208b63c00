package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"

	"github.com/phrazzld/memorybook/internal/domain"
	"github.com/phrazzld/memorybook/internal/theme"
	"golang.org/x/text/unicode/norm"
)

// Common errors returned by the render package
var (
	// ErrNilBook is returned when Render is called without a book
	ErrNilBook = errors.New("book cannot be nil")

	// ErrNilRegistry is returned when a renderer is built without a theme registry
	ErrNilRegistry = errors.New("theme registry cannot be nil")
)

// DefaultBookTitle is the cover title used when neither the cover nor the
// subject provide one.
const DefaultBookTitle = "Memory Book"

// Option customizes a Renderer.
type Option func(*Renderer)

// WithLocale sets the BCP 47 locale used for long dates (default "en").
func WithLocale(locale string) Option {
	return func(r *Renderer) {
		r.dates = NewDateFormatter(locale)
	}
}

// Renderer turns a Book into a single self-contained HTML document. It is
// safe for concurrent use and pure: the same book and theme ids always yield
// byte-identical output.
type Renderer struct {
	registry *theme.Registry
	dates    DateFormatter
	tmpl     *template.Template
}

// New creates a Renderer backed by the given registry.
func New(registry *theme.Registry, opts ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		registry: registry,
		dates:    NewDateFormatter("en"),
		tmpl:     tmpl,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Dates returns the renderer's date formatter.
func (r *Renderer) Dates() DateFormatter {
	return r.dates
}

type documentView struct {
	Lang       string
	Title      string
	Stylesheet template.CSS
	Cover      *coverView
	Pages      []pageView
}

type coverView struct {
	Style     template.CSS
	HasPhoto  bool
	PhotoURL  template.URL
	Title     string
	Subject   string
	DateRange string
}

type pageView struct {
	Kind     string
	Number   int
	Cover    *coverView
	HasPhoto bool
	PhotoURL template.URL
	Title    string
	Caption  string
	Date     string
}

// Render produces the markup document for the book: the cover first, then
// one section per page in list order. All user text is HTML-escaped.
func (r *Renderer) Render(book *domain.Book) (string, error) {
	if book == nil {
		return "", ErrNilBook
	}

	cover := r.coverView(book.Cover)
	view := documentView{
		Lang:       r.dates.Locale().String(),
		Title:      cover.Title,
		Stylesheet: stylesheet(r.registry.LayoutStyles(book.LayoutTemplateID)),
		Cover:      cover,
		Pages:      make([]pageView, 0, len(book.Pages)),
	}

	for i, page := range book.Pages {
		view.Pages = append(view.Pages, r.pageView(i+1, page, book.Cover))
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to render book %s: %w", book.ID, err)
	}
	return buf.String(), nil
}

func (r *Renderer) coverView(c domain.Cover) *coverView {
	v := &coverView{
		Style:     coverStyle(r.registry.ColorTheme(c.ColorThemeID)),
		Title:     text(c.Title),
		Subject:   text(c.SubjectName),
		DateRange: text(c.DateRangeLabel),
	}
	if v.Title == "" {
		v.Title = DefaultBookTitle
	}
	v.PhotoURL, v.HasPhoto = mediaURL(c.PhotoRef)
	return v
}

func (r *Renderer) pageView(number int, p domain.Page, cover domain.Cover) pageView {
	v := pageView{
		Kind:    string(p.Type),
		Number:  number,
		Title:   text(p.Title),
		Caption: text(p.Caption),
	}
	if p.Date != "" {
		v.Date = text(r.dates.Long(p.Date))
	}

	switch p.Type {
	case domain.PageTypeTitle:
		c := r.coverView(cover)
		if v.Title != "" {
			c.Title = v.Title
		}
		v.Cover = c
	case domain.PageTypePhoto, domain.PageTypeMilestone:
		v.PhotoURL, v.HasPhoto = mediaURL(p.MediaRef)
	default:
		v.Kind = string(domain.PageTypeBlank)
	}
	return v
}

// text normalizes user text to NFC. Escaping is left to html/template.
func text(s string) string {
	return norm.NFC.String(s)
}

package render

import (
	"fmt"
	"html/template"

	"github.com/phrazzld/memorybook/internal/theme"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
{{template "cover" .Cover}}
{{- range .Pages}}
{{if eq .Kind "title"}}{{template "title" .}}{{else if eq .Kind "photo"}}{{template "photo" .}}{{else if eq .Kind "milestone"}}{{template "milestone" .}}{{else}}{{template "blank" .}}{{end}}
{{- end}}
</body>
</html>
`

const sectionTemplates = `
{{define "cover"}}<section class="page cover" style="{{.Style}}">
{{- if .HasPhoto}}
<div class="cover-photo"><img src="{{.PhotoURL}}" alt="{{.Title}}"></div>
{{- end}}
<h1 class="cover-title">{{.Title}}</h1>
{{- if .Subject}}
<p class="cover-subject">{{.Subject}}</p>
{{- end}}
{{- if .DateRange}}
<p class="cover-dates">{{.DateRange}}</p>
{{- end}}
</section>{{end}}

{{define "title"}}<section class="page title-page" data-page="{{.Number}}" style="{{.Cover.Style}}">
{{- if .Cover.HasPhoto}}
<div class="cover-photo"><img src="{{.Cover.PhotoURL}}" alt="{{.Cover.Title}}"></div>
{{- end}}
<h1 class="cover-title">{{.Cover.Title}}</h1>
{{- if .Cover.Subject}}
<p class="cover-subject">{{.Cover.Subject}}</p>
{{- end}}
{{- if .Cover.DateRange}}
<p class="cover-dates">{{.Cover.DateRange}}</p>
{{- end}}
{{- if .Caption}}
<p class="caption">{{.Caption}}</p>
{{- end}}
</section>{{end}}

{{define "photo"}}<section class="page photo-page" data-page="{{.Number}}">
{{- if .HasPhoto}}
<figure class="photo"><img src="{{.PhotoURL}}" alt="{{.Caption}}"></figure>
{{- end}}
{{- if .Caption}}
<p class="caption">{{.Caption}}</p>
{{- end}}
{{- if .Date}}
<p class="date">{{.Date}}</p>
{{- end}}
</section>{{end}}

{{define "milestone"}}<section class="page milestone-page" data-page="{{.Number}}">
{{- if .HasPhoto}}
<figure class="photo"><img src="{{.PhotoURL}}" alt="{{.Title}}"></figure>
{{- end}}
<span class="badge">Milestone</span>
{{- if .Title}}
<h2 class="milestone-title">{{.Title}}</h2>
{{- end}}
{{- if .Caption}}
<p class="caption">{{.Caption}}</p>
{{- end}}
{{- if .Date}}
<p class="date">{{.Date}}</p>
{{- end}}
</section>{{end}}

{{define "blank"}}<section class="page blank-page" data-page="{{.Number}}"></section>{{end}}
`

func parseTemplates() (*template.Template, error) {
	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}
	if _, err := tmpl.Parse(sectionTemplates); err != nil {
		return nil, fmt.Errorf("failed to parse section templates: %w", err)
	}
	return tmpl, nil
}

// stylesheet builds the document CSS from a layout's style rules. The rules
// come from the registry, never from user input, so they are trusted.
func stylesheet(s theme.Styles) template.CSS {
	return template.CSS(fmt.Sprintf(`
@page { size: A4; margin: 0; }
* { box-sizing: border-box; }
body { margin: 0; font-family: %[1]s; color: %[4]s; }
.page { width: 210mm; height: 297mm; padding: %[8]s; background: %[3]s; border: %[6]s; border-radius: %[7]s; page-break-after: always; break-after: page; display: flex; flex-direction: column; align-items: center; justify-content: center; overflow: hidden; }
.page:last-child { page-break-after: auto; break-after: auto; }
h1, h2 { font-family: %[2]s; margin: 16px 0 8px; text-align: center; }
.cover-title { font-size: 40px; }
.cover-subject { font-size: 22px; margin: 4px 0; }
.cover-dates { font-size: 16px; opacity: 0.8; }
.cover-photo img { max-width: 150mm; max-height: 150mm; border: %[9]s; border-radius: %[7]s; }
.photo { margin: 0; }
.photo img { max-width: 100%%; max-height: 220mm; object-fit: contain; border: %[9]s; border-radius: %[7]s; }
.caption { font-size: %[10]s; font-style: %[11]s; text-align: center; white-space: pre-wrap; margin: 12px 0 4px; }
.date { font-size: 12px; color: %[5]s; letter-spacing: 0.05em; }
.badge { display: inline-block; padding: 4px 12px; margin-top: 12px; border-radius: 999px; background: %[12]s; color: %[13]s; font-size: 12px; text-transform: uppercase; letter-spacing: 0.1em; }
.milestone-title { font-size: 26px; color: %[5]s; }
`,
		s.FontFamily,      // 1
		s.HeadingFont,     // 2
		s.PageBackground,  // 3
		s.TextColor,       // 4
		s.AccentColor,     // 5
		s.Border,          // 6
		s.BorderRadius,    // 7
		s.PagePadding,     // 8
		s.PhotoFrame,      // 9
		s.CaptionSize,     // 10
		s.CaptionStyle,    // 11
		s.BadgeBackground, // 12
		s.BadgeColor,      // 13
	))
}

// coverStyle builds the inline background/foreground style for cover-like
// sections from a registry color theme.
func coverStyle(c theme.ColorTheme) template.CSS {
	return template.CSS(fmt.Sprintf("background: %s; color: %s;", c.Background, c.Foreground))
}

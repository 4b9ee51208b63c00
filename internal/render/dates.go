package render

import (
	"fmt"
	"time"

	"github.com/phrazzld/memorybook/internal/domain"
	"golang.org/x/text/language"
)

// supportedLocales lists the languages with a long date form. The first entry
// is the fallback for unmatched locales.
var supportedLocales = []language.Tag{
	language.English,
	language.French,
	language.German,
	language.Spanish,
	language.Dutch,
}

var localeMatcher = language.NewMatcher(supportedLocales)

type longDateStyle struct {
	months [12]string
	format func(day int, month string, year int) string
}

var longDateStyles = []longDateStyle{
	{
		months: [12]string{"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December"},
		format: func(d int, m string, y int) string { return fmt.Sprintf("%d %s %d", d, m, y) },
	},
	{
		months: [12]string{"janvier", "février", "mars", "avril", "mai", "juin",
			"juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		format: func(d int, m string, y int) string { return fmt.Sprintf("%d %s %d", d, m, y) },
	},
	{
		months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
			"Juli", "August", "September", "Oktober", "November", "Dezember"},
		format: func(d int, m string, y int) string { return fmt.Sprintf("%d. %s %d", d, m, y) },
	},
	{
		months: [12]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
			"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
		format: func(d int, m string, y int) string { return fmt.Sprintf("%d de %s de %d", d, m, y) },
	},
	{
		months: [12]string{"januari", "februari", "maart", "april", "mei", "juni",
			"juli", "augustus", "september", "oktober", "november", "december"},
		format: func(d int, m string, y int) string { return fmt.Sprintf("%d %s %d", d, m, y) },
	},
}

// DateFormatter renders calendar dates in a locale's long form.
type DateFormatter struct {
	tag   language.Tag
	style longDateStyle
}

// NewDateFormatter picks the closest supported locale for the given BCP 47
// tag. Unparseable or unsupported tags fall back to English.
func NewDateFormatter(locale string) DateFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	_, idx, _ := localeMatcher.Match(tag)
	return DateFormatter{tag: supportedLocales[idx], style: longDateStyles[idx]}
}

// Locale returns the matched locale.
func (f DateFormatter) Locale() language.Tag {
	return f.tag
}

// Format renders a parsed date.
func (f DateFormatter) Format(t time.Time) string {
	return f.style.format(t.Day(), f.style.months[t.Month()-1], t.Year())
}

// Long renders a calendar date string such as "2024-06-15" as "15 June 2024".
// Strings that do not parse are returned verbatim.
func (f DateFormatter) Long(date string) string {
	t, err := domain.ParseDate(date)
	if err != nil {
		return date
	}
	return f.Format(t)
}

package grid

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/shiftgrid/internal/record"
)

// Renderer formats a field value for display.
type Renderer func(record.Value) string

// Format is the closed set of column display formats.
type Format int

const (
	// FormatText renders the value's textual form.
	FormatText Format = iota
	// FormatInteger renders numbers with thousands separators and no fraction.
	FormatInteger
	// FormatDecimal renders numbers with two fraction digits.
	FormatDecimal
	// FormatCurrency renders numbers as dollar amounts.
	FormatCurrency
	// FormatDate renders RFC 3339 or YYYY-MM-DD values as "Jan 2, 2006".
	FormatDate
	// FormatDateTime renders RFC 3339 values as "Jan 2, 2006 15:04".
	FormatDateTime
	// FormatBoolean renders booleans as Yes/No.
	FormatBoolean
	// FormatStatus renders snake_case or kebab-case codes as title-cased words.
	FormatStatus
)

var formatNames = [...]string{
	FormatText:     "text",
	FormatInteger:  "integer",
	FormatDecimal:  "decimal",
	FormatCurrency: "currency",
	FormatDate:     "date",
	FormatDateTime: "datetime",
	FormatBoolean:  "boolean",
	FormatStatus:   "status",
}

// String returns the configuration name of the format.
func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// ParseFormat maps a configuration name to a Format. An empty name is FormatText.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return FormatText, nil
	}
	for i, n := range formatNames {
		if n == name {
			return Format(i), nil
		}
	}
	return FormatText, &ConfigError{
		Code:    ErrCodeUnknownFormat,
		Field:   "format",
		Message: fmt.Sprintf("unknown format %q: must be one of %s", name, strings.Join(formatNames[:], ", ")),
	}
}

// Renderer returns the display function for the format.
func (f Format) Renderer() Renderer {
	switch f {
	case FormatText:
		return renderText
	case FormatInteger:
		return renderInteger
	case FormatDecimal:
		return renderDecimal
	case FormatCurrency:
		return renderCurrency
	case FormatDate:
		return renderTime("Jan 2, 2006")
	case FormatDateTime:
		return renderTime("Jan 2, 2006 15:04")
	case FormatBoolean:
		return renderBoolean
	case FormatStatus:
		return renderStatus
	default:
		return renderText
	}
}

// newPrinter returns an English number printer. Printers and casers are not
// shared: renderers may run on concurrent request goroutines.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func renderText(v record.Value) string {
	s, _ := record.Stringify(v)
	return s
}

func numeric(v record.Value) (float64, bool) {
	switch val := v.(type) {
	case record.Int:
		return float64(val), true
	case record.Float:
		return float64(val), true
	default:
		return 0, false
	}
}

func renderInteger(v record.Value) string {
	if n, ok := v.(record.Int); ok {
		return newPrinter().Sprintf("%d", int64(n))
	}
	if f, ok := numeric(v); ok {
		return newPrinter().Sprintf("%.0f", f)
	}
	return renderText(v)
}

func renderDecimal(v record.Value) string {
	if f, ok := numeric(v); ok {
		return newPrinter().Sprintf("%.2f", f)
	}
	return renderText(v)
}

func renderCurrency(v record.Value) string {
	f, ok := numeric(v)
	if !ok {
		return renderText(v)
	}
	if f < 0 {
		return "-$" + newPrinter().Sprintf("%.2f", -f)
	}
	return "$" + newPrinter().Sprintf("%.2f", f)
}

func renderTime(layout string) Renderer {
	return func(v record.Value) string {
		s, ok := v.(record.String)
		if !ok {
			return renderText(v)
		}
		for _, in := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(in, string(s)); err == nil {
				return t.Format(layout)
			}
		}
		return string(s)
	}
}

func renderBoolean(v record.Value) string {
	b, ok := v.(record.Bool)
	if !ok {
		return renderText(v)
	}
	if b {
		return "Yes"
	}
	return "No"
}

func renderStatus(v record.Value) string {
	s, ok := record.Stringify(v)
	if !ok {
		return ""
	}
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	return cases.Title(language.English).String(strings.ToLower(strings.Join(words, " ")))
}

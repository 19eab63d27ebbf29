package opc

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateTimeLayout is the canonical W3CDTF rendering used when writing dates.
const DateTimeLayout = "2006-01-02T15:04:05Z"

// offsetDateLayouts are tried when the value ends with a numeric offset,
// after "+HH:MM" has been rewritten to "+HHMM".
var offsetDateLayouts = []string{
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05.0-0700",
	"2006-01-02T15:04:05.00-0700",
	"2006-01-02T15:04:05.000-0700",
}

// utcDateLayouts are tried on the value with a trailing "Z" ensured.
var utcDateLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05.00Z",
	"2006-01-02Z",
}

var timeZoneOffset = regexp.MustCompile(`([-+]\d\d):?(\d\d)$`)

// ParseDateTime parses a core properties date. Values with a numeric
// timezone offset are tried against the offset layouts first; then, with a
// "Z" appended if missing, against the UTC layouts (including a date-only
// one). The first layout that parses wins and the result is in UTC.
func ParseDateTime(s string) (time.Time, error) {
	if loc := timeZoneOffset.FindStringSubmatchIndex(s); loc != nil {
		normalized := s[:loc[0]] + s[loc[2]:loc[3]] + s[loc[4]:loc[5]]
		if t, ok := parseFirst(offsetDateLayouts, normalized); ok {
			return t, nil
		}
	}
	utc := s
	if !strings.HasSuffix(utc, "Z") {
		utc += "Z"
	}
	if t, ok := parseFirst(utcDateLayouts, utc); ok {
		return t, nil
	}
	all := make([]string, 0, len(offsetDateLayouts)+len(utcDateLayouts))
	all = append(all, offsetDateLayouts...)
	all = append(all, utcDateLayouts...)
	return time.Time{}, fmt.Errorf("%w: date %q not well formatted, expected format in: %s",
		ErrInvalidFormat, s, strings.Join(all, ", "))
}

func parseFirst(layouts []string, s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatDateTime renders t in UTC with DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(DateTimeLayout)
}

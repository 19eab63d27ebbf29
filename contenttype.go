package opc

import (
	"fmt"
	"regexp"
	"strings"
)

// Well-known content types.
const (
	ContentTypeCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
	ContentTypeRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	ContentTypeXML            = "application/xml"
	ContentTypeOctetStream    = "application/octet-stream"
)

// token is RFC 2616 token: printable US-ASCII except separators. Excluding
// "(" and ")" also rules out comments.
const (
	tokenRE        = "[!#$%&'*+\\-.^_`|~0-9A-Za-z]+"
	quotedStringRE = `"(?:[^"\\\x00-\x1f\x7f]|\\[\x00-\x7f])*"`
	parameterRE    = ";(" + tokenRE + ")=(" + tokenRE + "|" + quotedStringRE + ")"
)

var (
	typeSubTypePattern       = regexp.MustCompile("^(" + tokenRE + ")/(" + tokenRE + ")$")
	typeSubTypeParamsPattern = regexp.MustCompile("^(" + tokenRE + ")/(" + tokenRE + ")((?:" + parameterRE + ")+)$")
	parameterPattern         = regexp.MustCompile(parameterRE)
)

// Param is one attribute=value pair of a content type.
type Param struct {
	Key   string
	Value string
}

// ContentType is an immutable RFC 2616 media type, "type/subtype" optionally
// followed by ";attribute=value" parameters. Parameters keep their original
// order.
type ContentType struct {
	typ     string
	subType string
	params  []Param
}

// ParseContentType parses s, returning ErrInvalidFormat if it does not match
// the media type grammar. Leading or trailing whitespace is rejected.
func ParseContentType(s string) (ContentType, error) {
	if m := typeSubTypePattern.FindStringSubmatch(s); m != nil {
		return ContentType{typ: m[1], subType: m[2]}, nil
	}
	m := typeSubTypeParamsPattern.FindStringSubmatch(s)
	if m == nil {
		return ContentType{}, fmt.Errorf("%w: content type %q", ErrInvalidFormat, s)
	}
	ct := ContentType{typ: m[1], subType: m[2]}
	// A repeated capture group only keeps its last match, so the parameter
	// suffix is scanned again on its own.
	for _, pm := range parameterPattern.FindAllStringSubmatch(m[3], -1) {
		ct.params = setParam(ct.params, pm[1], pm[2])
	}
	return ct, nil
}

// MustParseContentType is like ParseContentType but panics on error.
func MustParseContentType(s string) ContentType {
	ct, err := ParseContentType(s)
	if err != nil {
		panic(err)
	}
	return ct
}

func setParam(params []Param, key, value string) []Param {
	for i := range params {
		if params[i].Key == key {
			params[i].Value = value
			return params
		}
	}
	return append(params, Param{Key: key, Value: value})
}

// Type returns the top-level type, e.g. "application".
func (ct ContentType) Type() string { return ct.typ }

// SubType returns the subtype, e.g. "xml".
func (ct ContentType) SubType() string { return ct.subType }

// HasParameters reports whether ct carries any parameters.
func (ct ContentType) HasParameters() bool { return len(ct.params) > 0 }

// Parameter returns the value of the named parameter as written, including
// quotes if it was a quoted string.
func (ct ContentType) Parameter(key string) (string, bool) {
	for _, p := range ct.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Parameters returns a copy of the parameters in their stored order.
func (ct ContentType) Parameters() []Param {
	if len(ct.params) == 0 {
		return nil
	}
	out := make([]Param, len(ct.params))
	copy(out, ct.params)
	return out
}

// IsZero reports whether ct is the zero ContentType.
func (ct ContentType) IsZero() bool { return ct.typ == "" }

// Render returns "type/subtype", followed by ";key=value" for every parameter
// when withParameters is set.
func (ct ContentType) Render(withParameters bool) string {
	var b strings.Builder
	b.WriteString(ct.typ)
	b.WriteByte('/')
	b.WriteString(ct.subType)
	if withParameters {
		for _, p := range ct.params {
			b.WriteByte(';')
			b.WriteString(p.Key)
			b.WriteByte('=')
			b.WriteString(p.Value)
		}
	}
	return b.String()
}

// String returns the full rendering including parameters.
func (ct ContentType) String() string { return ct.Render(true) }

// Equal compares the full renderings of ct and other case-insensitively.
func (ct ContentType) Equal(other ContentType) bool {
	return ct.Key() == other.Key()
}

// Key returns the lowercased full rendering. Two content types are Equal
// exactly when their keys are identical, so Key is suitable as a map key.
func (ct ContentType) Key() string {
	return strings.ToLower(ct.String())
}

// CompareContentTypes orders content types lexicographically by Key. It
// returns 0 exactly when a.Equal(b).
func CompareContentTypes(a, b ContentType) int {
	return strings.Compare(a.Key(), b.Key())
}

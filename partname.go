package opc

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// PartName is a normalized absolute part name such as "/word/document.xml".
//
// The zero value is not a valid part name. PartName is comparable and is used
// directly as a map key; equality is exact string equality.
type PartName struct {
	name string
}

// Well-known part names.
var (
	ContentTypesPartName   = PartName{name: "/" + ContentTypesEntryName}
	CorePropertiesPartName = PartName{name: "/docProps/core.xml"}
)

// NewPartName validates s and returns it as a PartName.
func NewPartName(s string) (PartName, error) {
	if err := validatePartName(s); err != nil {
		return PartName{}, fmt.Errorf("%w: %q: %v", ErrInvalidPartName, s, err)
	}
	return PartName{name: s}, nil
}

// MustPartName is like NewPartName but panics on error. It is intended for
// package-level constants and tests.
func MustPartName(s string) PartName {
	pn, err := NewPartName(s)
	if err != nil {
		panic(err)
	}
	return pn
}

// ParsePartNameURI parses a relative or absolute reference, as found in the
// PartName attribute of an Override element, and normalizes it into a
// PartName. Relative references are resolved against the package root.
func ParsePartNameURI(ref string) (PartName, error) {
	if err := checkEncodedSeparators(ref); err != nil {
		return PartName{}, fmt.Errorf("%w: %q: %v", ErrInvalidPartName, ref, err)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return PartName{}, fmt.Errorf("%w: %q: %v", ErrInvalidPartName, ref, err)
	}
	if u.Scheme != "" || u.Host != "" || u.RawQuery != "" || u.Fragment != "" {
		return PartName{}, fmt.Errorf("%w: %q: not a package-relative reference", ErrInvalidPartName, ref)
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if strings.HasSuffix(p, "/") {
		return PartName{}, fmt.Errorf("%w: %q: must not end with a separator", ErrInvalidPartName, ref)
	}
	return NewPartName(path.Clean(p))
}

// String returns the part name, including its leading separator.
func (pn PartName) String() string { return pn.name }

// IsZero reports whether pn is the zero PartName.
func (pn PartName) IsZero() bool { return pn.name == "" }

// Extension returns the extension of the last segment without the dot, in its
// original case, or "" if the last segment has none.
func (pn PartName) Extension() string {
	seg := pn.name[strings.LastIndexByte(pn.name, '/')+1:]
	i := strings.LastIndexByte(seg, '.')
	if i < 0 {
		return ""
	}
	return seg[i+1:]
}

// Compare orders part names lexicographically.
func (pn PartName) Compare(other PartName) int {
	return strings.Compare(pn.name, other.name)
}

// checkEncodedSeparators runs on the raw string; once decoded, %2F is
// indistinguishable from a real separator.
func checkEncodedSeparators(s string) error {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "%2f") || strings.Contains(lower, "%5c") {
		return fmt.Errorf("part name must not contain encoded separators")
	}
	return nil
}

func validatePartName(s string) error {
	if s == "" {
		return fmt.Errorf("part name is empty")
	}
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("part name must start with a separator")
	}
	if len(s) == 1 || strings.HasSuffix(s, "/") {
		return fmt.Errorf("part name must not end with a separator")
	}
	if strings.ContainsRune(s, '\\') {
		return fmt.Errorf("part name must use forward slashes")
	}
	if err := checkEncodedSeparators(s); err != nil {
		return err
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("part name must not contain control characters")
		}
	}
	for _, seg := range strings.Split(s[1:], "/") {
		switch {
		case seg == "":
			return fmt.Errorf("part name must not contain empty segments")
		case seg == "." || seg == "..":
			return fmt.Errorf("part name must not contain relative segments")
		case strings.HasSuffix(seg, "."):
			return fmt.Errorf("segment %q must not end with a dot", seg)
		}
	}
	return nil
}

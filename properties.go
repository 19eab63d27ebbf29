package opc

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
)

// CoreProperties is the core document metadata of a package. Every field is
// optional; dates are held in UTC.
type CoreProperties struct {
	Category       *string
	ContentStatus  *string
	ContentType    *string
	Creator        *string
	Description    *string
	Identifier     *string
	Keywords       *string
	Language       *string
	LastModifiedBy *string
	Revision       *string
	Subject        *string
	Title          *string
	Version        *string

	Created     *time.Time
	LastPrinted *time.Time
	Modified    *time.Time
}

// PropertiesPart is the core properties part. Its content is accessed only
// through the typed fields of Core; the raw stream operations, Save and Load
// fail with ErrUnsupportedOperation. The package writes and reads it through
// PropertiesMarshaller and PropertiesUnmarshaller.
type PropertiesPart struct {
	partHeader
	Core CoreProperties
}

var coreContentType = MustParseContentType(ContentTypeCoreProperties)

// NewPropertiesPart returns an empty core properties part.
func NewPropertiesPart(name PartName) *PropertiesPart {
	return &PropertiesPart{partHeader: partHeader{name: name, contentType: coreContentType}}
}

// StringProperty returns a pointer to v, for assigning CoreProperties fields.
func StringProperty(v string) *string { return &v }

// SetCreatedString parses s with ParseDateTime. An empty s clears the value.
func (p *PropertiesPart) SetCreatedString(s string) error {
	return setDateProperty(&p.Core.Created, s)
}

// CreatedString returns the creation date in DateTimeLayout, or "" if unset.
func (p *PropertiesPart) CreatedString() string { return dateProperty(p.Core.Created) }

// SetModifiedString parses s with ParseDateTime. An empty s clears the value.
func (p *PropertiesPart) SetModifiedString(s string) error {
	return setDateProperty(&p.Core.Modified, s)
}

// ModifiedString returns the modification date in DateTimeLayout, or "".
func (p *PropertiesPart) ModifiedString() string { return dateProperty(p.Core.Modified) }

// SetLastPrintedString parses s with ParseDateTime. An empty s clears the
// value.
func (p *PropertiesPart) SetLastPrintedString(s string) error {
	return setDateProperty(&p.Core.LastPrinted, s)
}

// LastPrintedString returns the last printed date in DateTimeLayout, or "".
func (p *PropertiesPart) LastPrintedString() string { return dateProperty(p.Core.LastPrinted) }

func setDateProperty(dst **time.Time, s string) error {
	if s == "" {
		*dst = nil
		return nil
	}
	t, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*dst = &t
	return nil
}

func dateProperty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDateTime(*t)
}

func (p *PropertiesPart) unsupported(op string) error {
	return fmt.Errorf("%w: %s on core properties part %s", ErrUnsupportedOperation, op, p.name)
}

func (p *PropertiesPart) ReadStream() (io.ReadCloser, error) {
	return nil, p.unsupported("read stream")
}

func (p *PropertiesPart) WriteStream() (io.WriteCloser, error) {
	return nil, p.unsupported("write stream")
}

func (p *PropertiesPart) Save(*zip.Writer) (bool, error) {
	return false, p.unsupported("save")
}

func (p *PropertiesPart) Load(io.Reader) error {
	return p.unsupported("load")
}

// Size is always 0: the part has no byte content of its own.
func (p *PropertiesPart) Size() int64 { return 0 }

// Clear resets every property.
func (p *PropertiesPart) Clear() { p.Core = CoreProperties{} }

func (p *PropertiesPart) Flush() error { return nil }

func (p *PropertiesPart) Close() error { return nil }

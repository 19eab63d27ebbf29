package opc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strings"
)

// NamespaceContentTypes is the namespace of the content types document.
const NamespaceContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// xmlTypesDoc is the decoding shape: elements must be in the content types
// namespace.
type xmlTypesDoc struct {
	XMLName   xml.Name      `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []xmlDefault  `xml:"http://schemas.openxmlformats.org/package/2006/content-types Default"`
	Overrides []xmlOverride `xml:"http://schemas.openxmlformats.org/package/2006/content-types Override"`
}

// xmlTypesOut is the encoding shape; the namespace is declared once on the
// root so children are not repeated with their own xmlns.
type xmlTypesOut struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

// ParseContentTypes reads a content types document into a new manager.
func ParseContentTypes(r io.Reader) (*ContentTypeManager, error) {
	m := NewContentTypeManager()
	if err := m.Load(r); err != nil {
		return nil, err
	}
	return m, nil
}

// Load reads the Default and Override elements of a content types document
// and adds them to the tables. Extensions are lowercased, Override part names
// are normalized and every content type is validated.
func (m *ContentTypeManager) Load(r io.Reader) error {
	var doc xmlTypesDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: content types document: %v", ErrInvalidFormat, err)
	}
	for _, d := range doc.Defaults {
		if d.Extension == "" {
			return fmt.Errorf("%w: Default element without Extension", ErrInvalidFormat)
		}
		ct, err := ParseContentType(d.ContentType)
		if err != nil {
			return fmt.Errorf("default for %q: %w", d.Extension, err)
		}
		m.defaults[strings.ToLower(d.Extension)] = ct.String()
	}
	for _, o := range doc.Overrides {
		name, err := ParsePartNameURI(o.PartName)
		if err != nil {
			return fmt.Errorf("override: %w", err)
		}
		ct, err := ParseContentType(o.ContentType)
		if err != nil {
			return fmt.Errorf("override for %s: %w", name, err)
		}
		m.overrides[name] = ct.String()
	}
	return nil
}

// Marshal renders the content types document: Defaults ordered by extension,
// then Overrides ordered by part name.
func (m *ContentTypeManager) Marshal() ([]byte, error) {
	out := xmlTypesOut{Xmlns: NamespaceContentTypes}

	exts := make([]string, 0, len(m.defaults))
	for ext := range m.defaults {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	for _, ext := range exts {
		out.Defaults = append(out.Defaults, xmlDefault{Extension: ext, ContentType: m.defaults[ext]})
	}

	names := make([]PartName, 0, len(m.overrides))
	for name := range m.overrides {
		names = append(names, name)
	}
	slices.SortFunc(names, PartName.Compare)
	for _, name := range names {
		out.Overrides = append(out.Overrides, xmlOverride{PartName: name.String(), ContentType: m.overrides[name]})
	}

	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	if err := xml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

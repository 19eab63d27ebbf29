package opc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

const (
	NamespaceCoreProperties = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NamespaceDC             = "http://purl.org/dc/elements/1.1/"
	NamespaceDCTerms        = "http://purl.org/dc/terms/"
	NamespaceDCMIType       = "http://purl.org/dc/dcmitype/"
	NamespaceXSI            = "http://www.w3.org/2001/XMLSchema-instance"
)

// xmlCorePropertiesIn maps the core properties document for decoding.
type xmlCorePropertiesIn struct {
	XMLName        xml.Name `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties coreProperties"`
	Category       *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties category"`
	ContentStatus  *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties contentStatus"`
	ContentType    *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties contentType"`
	Keywords       *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties keywords"`
	LastModifiedBy *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties lastModifiedBy"`
	LastPrinted    *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties lastPrinted"`
	Revision       *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties revision"`
	Version        *string  `xml:"http://schemas.openxmlformats.org/package/2006/metadata/core-properties version"`
	Creator        *string  `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Description    *string  `xml:"http://purl.org/dc/elements/1.1/ description"`
	Identifier     *string  `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Language       *string  `xml:"http://purl.org/dc/elements/1.1/ language"`
	Subject        *string  `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Title          *string  `xml:"http://purl.org/dc/elements/1.1/ title"`
	Created        *string  `xml:"http://purl.org/dc/terms/ created"`
	Modified       *string  `xml:"http://purl.org/dc/terms/ modified"`
}

// xmlCorePropertiesOut maps the core properties document for encoding, with
// the conventional prefixes spelled out in the element names.
type xmlCorePropertiesOut struct {
	XMLName        xml.Name   `xml:"cp:coreProperties"`
	XmlnsCP        string     `xml:"xmlns:cp,attr"`
	XmlnsDC        string     `xml:"xmlns:dc,attr"`
	XmlnsDCTerms   string     `xml:"xmlns:dcterms,attr"`
	XmlnsDCMIType  string     `xml:"xmlns:dcmitype,attr"`
	XmlnsXSI       string     `xml:"xmlns:xsi,attr"`
	Category       *string    `xml:"cp:category,omitempty"`
	ContentStatus  *string    `xml:"cp:contentStatus,omitempty"`
	ContentType    *string    `xml:"cp:contentType,omitempty"`
	Created        *xmlW3CDTF `xml:"dcterms:created,omitempty"`
	Creator        *string    `xml:"dc:creator,omitempty"`
	Description    *string    `xml:"dc:description,omitempty"`
	Identifier     *string    `xml:"dc:identifier,omitempty"`
	Keywords       *string    `xml:"cp:keywords,omitempty"`
	Language       *string    `xml:"dc:language,omitempty"`
	LastModifiedBy *string    `xml:"cp:lastModifiedBy,omitempty"`
	LastPrinted    *string    `xml:"cp:lastPrinted,omitempty"`
	Modified       *xmlW3CDTF `xml:"dcterms:modified,omitempty"`
	Revision       *string    `xml:"cp:revision,omitempty"`
	Subject        *string    `xml:"dc:subject,omitempty"`
	Title          *string    `xml:"dc:title,omitempty"`
	Version        *string    `xml:"cp:version,omitempty"`
}

type xmlW3CDTF struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func w3cdtf(t *time.Time) *xmlW3CDTF {
	if t == nil {
		return nil
	}
	return &xmlW3CDTF{Type: "dcterms:W3CDTF", Value: FormatDateTime(*t)}
}

func formattedDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatDateTime(*t)
	return &s
}

func marshalCoreProperties(c CoreProperties) ([]byte, error) {
	out := xmlCorePropertiesOut{
		XmlnsCP:        NamespaceCoreProperties,
		XmlnsDC:        NamespaceDC,
		XmlnsDCTerms:   NamespaceDCTerms,
		XmlnsDCMIType:  NamespaceDCMIType,
		XmlnsXSI:       NamespaceXSI,
		Category:       c.Category,
		ContentStatus:  c.ContentStatus,
		ContentType:    c.ContentType,
		Created:        w3cdtf(c.Created),
		Creator:        c.Creator,
		Description:    c.Description,
		Identifier:     c.Identifier,
		Keywords:       c.Keywords,
		Language:       c.Language,
		LastModifiedBy: c.LastModifiedBy,
		LastPrinted:    formattedDate(c.LastPrinted),
		Modified:       w3cdtf(c.Modified),
		Revision:       c.Revision,
		Subject:        c.Subject,
		Title:          c.Title,
		Version:        c.Version,
	}
	var buf bytes.Buffer
	buf.WriteString(xmlDeclaration)
	if err := xml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalCoreProperties(r io.Reader) (CoreProperties, error) {
	var in xmlCorePropertiesIn
	if err := xml.NewDecoder(r).Decode(&in); err != nil {
		return CoreProperties{}, fmt.Errorf("%w: core properties: %v", ErrInvalidFormat, err)
	}
	c := CoreProperties{
		Category:       in.Category,
		ContentStatus:  in.ContentStatus,
		ContentType:    in.ContentType,
		Creator:        in.Creator,
		Description:    in.Description,
		Identifier:     in.Identifier,
		Keywords:       in.Keywords,
		Language:       in.Language,
		LastModifiedBy: in.LastModifiedBy,
		Revision:       in.Revision,
		Subject:        in.Subject,
		Title:          in.Title,
		Version:        in.Version,
	}
	dates := []struct {
		name string
		src  *string
		dst  **time.Time
	}{
		{"created", in.Created, &c.Created},
		{"modified", in.Modified, &c.Modified},
		{"lastPrinted", in.LastPrinted, &c.LastPrinted},
	}
	for _, d := range dates {
		if d.src == nil {
			continue
		}
		if err := setDateProperty(d.dst, *d.src); err != nil {
			return CoreProperties{}, fmt.Errorf("core properties %s: %w", d.name, err)
		}
	}
	return c, nil
}

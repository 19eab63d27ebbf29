package opc

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertiesPart_DateStrings(t *testing.T) {
	pp := NewPropertiesPart(CorePropertiesPartName)
	assert.Equal(t, "", pp.CreatedString())

	require.NoError(t, pp.SetCreatedString("2021-06-01T10:00:00Z"))
	assert.Equal(t, "2021-06-01T10:00:00Z", pp.CreatedString())

	require.NoError(t, pp.SetModifiedString("2021-06-01T12:00:00+02:00"))
	assert.Equal(t, "2021-06-01T10:00:00Z", pp.ModifiedString())

	require.NoError(t, pp.SetLastPrintedString("2021-06-01"))
	assert.Equal(t, "2021-06-01T00:00:00Z", pp.LastPrintedString())

	err := pp.SetCreatedString("soon")
	assert.True(t, errors.Is(err, ErrInvalidFormat))
	assert.Equal(t, "2021-06-01T10:00:00Z", pp.CreatedString(), "failed set must keep the old value")

	require.NoError(t, pp.SetCreatedString(""))
	assert.Nil(t, pp.Core.Created)
}

func TestPropertiesPart_UnsupportedOperations(t *testing.T) {
	pp := NewPropertiesPart(CorePropertiesPartName)

	_, err := pp.ReadStream()
	assert.True(t, errors.Is(err, ErrUnsupportedOperation))
	_, err = pp.WriteStream()
	assert.True(t, errors.Is(err, ErrUnsupportedOperation))
	_, err = pp.Save(nil)
	assert.True(t, errors.Is(err, ErrUnsupportedOperation))
	assert.True(t, errors.Is(pp.Load(strings.NewReader("")), ErrUnsupportedOperation))

	assert.Equal(t, int64(0), pp.Size())
	assert.NoError(t, pp.Flush())
	assert.NoError(t, pp.Close())
}

func TestPropertiesPart_Clear(t *testing.T) {
	pp := NewPropertiesPart(CorePropertiesPartName)
	pp.Core.Title = StringProperty("Report")
	require.NoError(t, pp.SetCreatedString("2021-06-01T10:00:00Z"))
	pp.Clear()
	assert.Equal(t, CoreProperties{}, pp.Core)
	assert.True(t, pp.ContentType().Equal(MustParseContentType(ContentTypeCoreProperties)))
}

func TestCorePropertiesXML_RoundTrip(t *testing.T) {
	created := time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC)
	printed := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	in := CoreProperties{
		Category:       StringProperty("reports"),
		ContentStatus:  StringProperty("Draft"),
		Creator:        StringProperty("Jane Roe"),
		Description:    StringProperty("A & B <test>"),
		Identifier:     StringProperty("urn:uuid:1234"),
		Keywords:       StringProperty("opc, zip"),
		Language:       StringProperty("en-US"),
		LastModifiedBy: StringProperty("John Doe"),
		Revision:       StringProperty("3"),
		Subject:        StringProperty("Testing"),
		Title:          StringProperty("Report"),
		Version:        StringProperty("1.0"),
		Created:        &created,
		Modified:       &created,
		LastPrinted:    &printed,
	}
	data, err := marshalCoreProperties(in)
	require.NoError(t, err)
	s := string(data)
	assert.Contains(t, s, `<dcterms:created xsi:type="dcterms:W3CDTF">2021-06-01T10:00:00Z</dcterms:created>`)
	assert.Contains(t, s, `xmlns:cp="`+NamespaceCoreProperties+`"`)
	assert.NotContains(t, s, "contentType")

	out, err := unmarshalCoreProperties(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestCorePropertiesXML_ForeignDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
  xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/"
  xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>Budget</dc:title>
  <dc:creator>Finance</dc:creator>
  <dcterms:created xsi:type="dcterms:W3CDTF">2021-06-01T12:00:00+02:00</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">2021-06-01</dcterms:modified>
</cp:coreProperties>`
	c, err := unmarshalCoreProperties(strings.NewReader(doc))
	require.NoError(t, err)
	require.NotNil(t, c.Title)
	assert.Equal(t, "Budget", *c.Title)
	assert.Equal(t, "Finance", *c.Creator)
	assert.Equal(t, time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC), *c.Created)
	assert.Equal(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), *c.Modified)
	assert.Nil(t, c.Subject)
	assert.Nil(t, c.LastPrinted)
}

func TestCorePropertiesXML_Invalid(t *testing.T) {
	_, err := unmarshalCoreProperties(strings.NewReader("<nope/>"))
	assert.True(t, errors.Is(err, ErrInvalidFormat))

	bad := `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"><dcterms:created>later</dcterms:created></cp:coreProperties>`
	_, err = unmarshalCoreProperties(strings.NewReader(bad))
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

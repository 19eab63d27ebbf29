package opc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentType(t *testing.T) {
	ct, err := ParseContentType("image/png")
	require.NoError(t, err)
	assert.Equal(t, "image", ct.Type())
	assert.Equal(t, "png", ct.SubType())
	assert.False(t, ct.HasParameters())
	assert.Equal(t, "image/png", ct.String())

	ct, err = ParseContentType("text/xml;charset=utf-8")
	require.NoError(t, err)
	assert.True(t, ct.HasParameters())
	v, ok := ct.Parameter("charset")
	assert.True(t, ok)
	assert.Equal(t, "utf-8", v)
	assert.Equal(t, "text/xml;charset=utf-8", ct.String())
	assert.Equal(t, "text/xml", ct.Render(false))
}

func TestParseContentType_RoundTrip(t *testing.T) {
	for _, s := range []string{
		ContentTypeCoreProperties,
		ContentTypeRelationships,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml",
		"text/plain;charset=us-ascii;format=flowed",
		`multipart/mixed;boundary="a b;c"`,
	} {
		ct, err := ParseContentType(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, ct.String())
	}
}

func TestParseContentType_ParameterOrderAndDuplicates(t *testing.T) {
	ct := MustParseContentType("a/b;z=1;y=2;z=3")
	assert.Equal(t, []Param{{Key: "z", Value: "3"}, {Key: "y", Value: "2"}}, ct.Parameters())

	params := ct.Parameters()
	params[0].Value = "changed"
	v, _ := ct.Parameter("z")
	assert.Equal(t, "3", v)
}

func TestParseContentType_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"text",
		"text/",
		"/xml",
		" text/xml",
		"text/xml ",
		"text/xml; charset=utf-8",
		"text/xml;charset",
		"text/xml;",
		"text/x(ml)",
		"text/xml;charset=\"open",
		"a/b/c",
	} {
		_, err := ParseContentType(s)
		assert.True(t, errors.Is(err, ErrInvalidFormat), "%q: got %v", s, err)
	}
}

func TestMustParseContentType_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParseContentType("nope") })
}

func TestContentTypeEqualKeyCompare(t *testing.T) {
	a := MustParseContentType("Text/XML;Charset=UTF-8")
	b := MustParseContentType("text/xml;charset=utf-8")
	c := MustParseContentType("text/xml")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, 0, CompareContentTypes(a, b))

	assert.False(t, a.Equal(c))
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, 1, CompareContentTypes(a, c))
	assert.Equal(t, -1, CompareContentTypes(c, a))
}

func TestContentTypeZero(t *testing.T) {
	var ct ContentType
	assert.True(t, ct.IsZero())
	assert.Nil(t, ct.Parameters())
	assert.False(t, MustParseContentType("a/b").IsZero())
}

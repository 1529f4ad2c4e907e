package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	p, err := Parse("property.subProperty.thirdLevel.pi")
	require.NoError(t, err)
	assert.Equal(t, 4, p.Depth())
	assert.Equal(t, Path{Field("property"), Field("subProperty"), Field("thirdLevel"), Field("pi")}, p)
	assert.Equal(t, "property.subProperty.thirdLevel.pi", p.String())
}

func TestParse_Indexes(t *testing.T) {
	p, err := Parse("items.[3].'7'.id")
	require.NoError(t, err)
	assert.Equal(t, Path{Field("items"), Index(3), Field("7"), Field("id")}, p)

	p, err = Parse("items.12")
	require.NoError(t, err)
	assert.Equal(t, Path{Field("items"), Index(12)}, p)
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "   ", "a..b", "a.[x]", "a.[-1]"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptyPath)
}

func TestRenderings(t *testing.T) {
	p := New(Field("a.b"), Index(2), Field("c/d"))

	assert.Equal(t, []string{"a.b", "2", "c/d"}, p.Keys())
	assert.Equal(t, []string{"a.b", "[2]", "c/d"}, p.BracketKeys())
	assert.Equal(t, []interface{}{"a.b", 2, "c/d"}, p.Interfaces())
	assert.Equal(t, `a\.b.2.c/d`, p.GJSON())
	assert.Equal(t, `."a.b"[2]."c/d"`, p.JQ())
	assert.Equal(t, ".", Path(nil).JQ())
	assert.Equal(t, `.[0]."id"`, New(Index(0), Field("id")).JQ())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("") })
	assert.NotPanics(t, func() { MustParse("topLevelProperty") })
}

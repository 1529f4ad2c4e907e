package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsonbench/fixtures"
	"jsonbench/internal/jsonpath"
)

const smallDoc = `{"topLevelProperty": 1, "property": {"subProperty": {"thirdLevel": {"pi": 3.14159}}}}`

var (
	topLevel    = Target{Path: jsonpath.MustParse("topLevelProperty"), Kind: KindInt}
	fourthLevel = Target{Path: jsonpath.MustParse("property.subProperty.thirdLevel.pi"), Kind: KindFloat}
)

func expectedFor(a Adapter, t Target) Scalar {
	if t.Kind == KindInt {
		return Int(1)
	}
	if a.Descriptor().Lossy {
		return Float(3.141590118408203)
	}
	return Float(3.14159)
}

func loadFixtures(t *testing.T) map[string][]byte {
	t.Helper()
	docs := map[string][]byte{"inline": []byte(smallDoc)}
	for _, id := range []string{"small", "large"} {
		data, err := fixtures.FS.ReadFile(id + ".json")
		require.NoError(t, err)
		docs[id] = data
	}
	return docs
}

func TestDefaultRegistry(t *testing.T) {
	reg := Default()
	names := make([]string, 0)
	for _, a := range reg.All() {
		names = append(names, a.Descriptor().Name)
	}
	assert.Equal(t, []string{
		"encoding-json", "fastjson", "gjson", "gjson-f32", "go-json", "gojq",
		"jsoniter", "jsonparser", "jstream", "simdjson", "sonic",
	}, names)

	a, ok := reg.Get("gjson")
	require.True(t, ok)
	assert.Equal(t, "github.com/tidwall/gjson", a.Descriptor().Module)

	_, ok = reg.Get("nope")
	assert.False(t, ok)
}

// Every adapter agrees with the expected values through every mode it
// supports, and parse-all plus lookup agrees with direct extraction.
func TestAdapters_AgreeAcrossModes(t *testing.T) {
	docs := loadFixtures(t)

	for _, a := range Default().All() {
		a := a
		t.Run(a.Descriptor().Name, func(t *testing.T) {
			if !a.Supports(ModeNavigate) && !a.Supports(ModeExtract) {
				t.Skip(Reason(a, ModeExtract))
			}
			for name, doc := range docs {
				for _, target := range []Target{topLevel, fourthLevel} {
					want := expectedFor(a, target)

					var viaDoc, viaExtract *Scalar
					if a.Supports(ModeNavigate) {
						d, err := a.ParseAll(doc)
						require.NoError(t, err, name)
						got, err := d.Lookup(target)
						require.NoError(t, err, name)
						viaDoc = &got
						assert.True(t, want.Equal(got), "%s %s: got %s want %s", name, target, got, want)
					}
					if a.Supports(ModeExtract) {
						got, err := a.Extract(doc, target)
						require.NoError(t, err, name)
						viaExtract = &got
						assert.True(t, want.Equal(got), "%s %s: got %s want %s", name, target, got, want)
					}
					if viaDoc != nil && viaExtract != nil {
						assert.True(t, viaDoc.Equal(*viaExtract))
					}
				}
			}
		})
	}
}

// Fixtures are shared by every case, so no engine may parse in place.
func TestAdapters_LeaveInputUntouched(t *testing.T) {
	docs := loadFixtures(t)

	for _, a := range Default().All() {
		name := a.Descriptor().Name
		for id, doc := range docs {
			pristine := append([]byte(nil), doc...)
			if a.Supports(ModeParseAll) || a.Supports(ModeNavigate) {
				d, err := a.ParseAll(doc)
				require.NoError(t, err, name)
				_, err = d.Lookup(fourthLevel)
				require.NoError(t, err, name)
			}
			if a.Supports(ModeExtract) {
				_, err := a.Extract(doc, fourthLevel)
				require.NoError(t, err, name)
			}
			assert.Equal(t, pristine, doc, "%s modified %s", name, id)
		}
	}
}

func TestAdapters_UnsupportedModes(t *testing.T) {
	for _, a := range Default().All() {
		name := a.Descriptor().Name
		if !a.Supports(ModeExtract) {
			_, err := a.Extract([]byte(smallDoc), topLevel)
			assert.ErrorIs(t, err, ErrUnsupportedMode, name)
			assert.NotEmpty(t, Reason(a, ModeExtract), name)
		}
	}

	gj := NewGJSON()
	_, err := gj.ParseAll([]byte(smallDoc))
	assert.ErrorIs(t, err, ErrUnsupportedMode)
	assert.Contains(t, Reason(gj, ModeParseAll), "defers all parsing")
}

func TestReusableInstances_MatchStateless(t *testing.T) {
	docs := loadFixtures(t)

	for _, a := range Default().All() {
		r, ok := a.(Reusable)
		if !ok || !a.Supports(ModeNavigate) {
			continue
		}
		inst := r.Instance()
		for name, doc := range docs {
			for _, target := range []Target{topLevel, fourthLevel} {
				// Run twice so the second call goes through reused state.
				for i := 0; i < 2; i++ {
					sd, err := a.ParseAll(doc)
					require.NoError(t, err)
					stateless, err := sd.Lookup(target)
					require.NoError(t, err)

					rd, err := inst.ParseAll(doc)
					require.NoError(t, err)
					stateful, err := rd.Lookup(target)
					require.NoError(t, err)

					assert.True(t, stateless.Equal(stateful), "%s %s %s", a.Descriptor().Name, name, target)
				}
			}
		}
	}
}

func TestLookupErrors(t *testing.T) {
	missing := Target{Path: jsonpath.MustParse("property.nope"), Kind: KindInt}
	wrongKind := Target{Path: fourthLevel.Path, Kind: KindInt}
	notScalar := Target{Path: jsonpath.MustParse("property"), Kind: KindFloat}

	for _, a := range Default().All() {
		name := a.Descriptor().Name
		if a.Supports(ModeExtract) {
			_, err := a.Extract([]byte(smallDoc), missing)
			assert.ErrorIs(t, err, ErrNotFound, name)
			_, err = a.Extract([]byte(smallDoc), wrongKind)
			assert.ErrorIs(t, err, ErrKind, name)
			_, err = a.Extract([]byte(smallDoc), notScalar)
			assert.Error(t, err, name)
		}
		if a.Supports(ModeNavigate) {
			d, err := a.ParseAll([]byte(smallDoc))
			require.NoError(t, err, name)
			_, err = d.Lookup(missing)
			assert.ErrorIs(t, err, ErrNotFound, name)
			_, err = d.Lookup(wrongKind)
			assert.ErrorIs(t, err, ErrKind, name)
			_, err = d.Lookup(notScalar)
			assert.Error(t, err, name)
		}
	}
}

func TestGojqNullIsKindError(t *testing.T) {
	d, err := NewGojq().ParseAll([]byte(`{"property": {"pi": null}}`))
	require.NoError(t, err)

	_, err = d.Lookup(Target{Path: jsonpath.MustParse("property.pi"), Kind: KindFloat})
	assert.ErrorIs(t, err, ErrKind)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "is null")

	_, err = d.Lookup(Target{Path: jsonpath.MustParse("property.e"), Kind: KindFloat})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseErrors(t *testing.T) {
	for _, a := range Default().All() {
		if !a.Supports(ModeParseAll) {
			continue
		}
		_, err := a.ParseAll([]byte(`{"topLevelProperty": `))
		assert.Error(t, err, a.Descriptor().Name)
	}
}

func TestIndexSteps(t *testing.T) {
	doc := []byte(`{"items": [{"id": 10}, {"id": 11, "w": 2.5}]}`)
	target := Target{Path: jsonpath.MustParse("items.1.id"), Kind: KindInt}
	float := Target{Path: jsonpath.MustParse("items.1.w"), Kind: KindFloat}
	outOfRange := Target{Path: jsonpath.MustParse("items.5.id"), Kind: KindInt}

	for _, a := range Default().All() {
		name := a.Descriptor().Name
		if a.Supports(ModeNavigate) {
			d, err := a.ParseAll(doc)
			require.NoError(t, err, name)
			got, err := d.Lookup(target)
			require.NoError(t, err, name)
			assert.Equal(t, Int(11), got, name)
			got, err = d.Lookup(float)
			require.NoError(t, err, name)
			assert.Equal(t, Float(2.5), got, name)
			_, err = d.Lookup(outOfRange)
			assert.ErrorIs(t, err, ErrNotFound, name)
		}
		if a.Supports(ModeExtract) {
			got, err := a.Extract(doc, target)
			require.NoError(t, err, name)
			assert.Equal(t, Int(11), got, name)
		}
	}
}

func TestGJSONFloat32Drift(t *testing.T) {
	assert.Equal(t, float64(float32(3.14159)), 3.141590118408203)

	got, err := NewGJSONFloat32().Extract([]byte(smallDoc), fourthLevel)
	require.NoError(t, err)
	assert.Equal(t, Float(3.141590118408203), got)
	assert.False(t, Float(3.14159).Equal(got))
}

func TestModeAndKindNames(t *testing.T) {
	for _, m := range Modes() {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMode("lazy")
	assert.Error(t, err)

	k, err := ParseKind("integer")
	require.NoError(t, err)
	assert.Equal(t, KindInt, k)
	k, err = ParseKind("float")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, k)
	_, err = ParseKind("string")
	assert.Error(t, err)

	assert.Equal(t, "stateful", SetupReusable.String())
	assert.Equal(t, "3.14159", Float(3.14159).String())
	assert.Equal(t, "1", Int(1).String())
	assert.False(t, Int(1).Equal(Float(1)))
}

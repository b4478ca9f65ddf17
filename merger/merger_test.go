package merger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/testutil"
	"github.com/erraggy/xmlmerge/xmlerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	mergerLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	os.Exit(m.Run())
}

func parseDoc(t *testing.T, name, src string) *document.Document {
	t.Helper()
	res, err := document.ParseWithOptions(
		document.WithBytes([]byte(src)),
		document.WithSourceName(name),
	)
	require.NoError(t, err)
	return res.Document
}

func mergeStrings(t *testing.T, config MergerConfig, a, b string) *MergeResult {
	t.Helper()
	result, err := New(config).Merge(parseDoc(t, "a.xml", a), parseDoc(t, "b.xml", b))
	require.NoError(t, err)
	return result
}

func marshal(t *testing.T, d *document.Document) string {
	t.Helper()
	data, err := document.Marshal(d)
	require.NoError(t, err)
	return string(data)
}

// recordByID returns the first record whose id attribute equals id.
func recordByID(t *testing.T, d *document.Document, id string) *document.Node {
	t.Helper()
	for _, rec := range d.Records() {
		if v, ok := rec.Attr("id"); ok && v == id {
			return rec
		}
	}
	t.Fatalf("no record with id %q", id)
	return nil
}

func attrValue(n *document.Node, name string) string {
	v, _ := n.Attr(name)
	return v
}

func TestMerge_ConcreteScenario(t *testing.T) {
	result := mergeStrings(t, DefaultConfig(),
		`<root><item id="1" name="A"/></root>`,
		`<root><item id="1" color="red"/><item id="2" name="B"/></root>`,
	)

	records := result.Document.Records()
	require.Len(t, records, 2)

	first := recordByID(t, result.Document, "1")
	assert.Equal(t, "A", attrValue(first, "name"))
	assert.Equal(t, "red", attrValue(first, "color"))

	second := recordByID(t, result.Document, "2")
	assert.Equal(t, "B", attrValue(second, "name"))

	assert.Equal(t, Stats{
		LeftRecords:  1,
		RightRecords: 2,
		Matched:      1,
		RightOnly:    1,
		Output:       2,
	}, result.Stats)
	assert.Empty(t, result.Warnings)
}

func TestMerge_OverridePolicy(t *testing.T) {
	a := `<root><r id="1" onlyA="a" both="left" same="s"/></root>`
	b := `<root><r id="1" both="right" onlyB="b" same="s"/></root>`

	tests := []struct {
		name     string
		strategy MergeStrategy
		want     []document.Attr
	}{
		{
			name:     "accept-right takes the second value",
			strategy: StrategyAcceptRight,
			want: []document.Attr{
				{Name: "id", Value: "1"},
				{Name: "onlyA", Value: "a"},
				{Name: "both", Value: "right"},
				{Name: "same", Value: "s"},
				{Name: "onlyB", Value: "b"},
			},
		},
		{
			name:     "accept-left keeps the first value",
			strategy: StrategyAcceptLeft,
			want: []document.Attr{
				{Name: "id", Value: "1"},
				{Name: "onlyA", Value: "a"},
				{Name: "both", Value: "left"},
				{Name: "same", Value: "s"},
				{Name: "onlyB", Value: "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Strategy = tt.strategy
			config.CollisionReport = true
			result := mergeStrings(t, config, a, b)

			records := result.Document.Records()
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].Attrs)

			// Only "both" differs; "same" is equal on both sides.
			assert.Equal(t, 1, result.CollisionCount)
			require.NotNil(t, result.CollisionDetails)
			require.Len(t, result.CollisionDetails.Events, 1)
			event := result.CollisionDetails.Events[0]
			assert.Equal(t, "both", event.Attribute)
			assert.Equal(t, "left", event.LeftValue)
			assert.Equal(t, "right", event.RightValue)
			assert.Equal(t, "1", event.Key)
			assert.Equal(t, tt.strategy, event.Strategy)
		})
	}
}

func TestMerge_DefaultPropertyIsID(t *testing.T) {
	// Same name, different id: no match on name.
	result, err := MergeWithOptions(WithDocuments(
		parseDoc(t, "a.xml", `<root><p id="1" name="x"/></root>`),
		parseDoc(t, "b.xml", `<root><p id="2" name="x"/></root>`),
	))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.Matched)
	assert.Len(t, result.Document.Records(), 2)

	result, err = MergeWithOptions(
		WithDocuments(
			parseDoc(t, "a.xml", `<root><p id="1" name="x"/></root>`),
			parseDoc(t, "b.xml", `<root><p id="2" name="x"/></root>`),
		),
		WithProperties("name"),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Matched)
	assert.Len(t, result.Document.Records(), 1)
}

func TestMerge_UnmatchedPassthrough(t *testing.T) {
	a := `<root><r id="1" z="last" a="first">text<c/></r><r id="2"/></root>`
	b := `<root><r id="2" x="y"/></root>`
	docA := parseDoc(t, "a.xml", a)
	original := docA.Records()[0].Clone()

	result, err := New(DefaultConfig()).Merge(docA, parseDoc(t, "b.xml", b))
	require.NoError(t, err)

	got := recordByID(t, result.Document, "1")
	assert.Equal(t, original.Attrs, got.Attrs)
	assert.Equal(t, len(original.Children), len(got.Children))
	assert.Equal(t, original.Text(), got.Text())

	// The output is a copy; inputs are not mutated.
	got.SetAttr("z", "changed")
	v, _ := docA.Records()[0].Attr("z")
	assert.Equal(t, "last", v)
}

func TestMerge_PassthroughKeepsLeafWhitespace(t *testing.T) {
	result := mergeStrings(t, DefaultConfig(),
		`<r><item id="1"><note>   </note></item></r>`,
		`<r><item id="2"/></r>`,
	)

	note := recordByID(t, result.Document, "1").FirstElement("note")
	require.NotNil(t, note)
	assert.Equal(t, "   ", note.Text())
	assert.Contains(t, marshal(t, result.Document), `<note>   </note>`)
}

func TestMergeWithOptions_PreserveWhitespace(t *testing.T) {
	left := testutil.WriteTempFile(t, "left.xml", "<r><item id=\"1\">\n\t<a/>\n</item></r>")
	right := testutil.WriteTempFile(t, "right.xml", `<r><item id="2"/></r>`)

	tests := []struct {
		name     string
		preserve bool
		want     int
	}{
		{name: "dropped by default", preserve: false, want: 1},
		{name: "kept when preserving", preserve: true, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.PreserveWhitespace = tt.preserve

			result, err := MergeWithOptions(WithFilePaths(left, right), WithConfig(config))
			require.NoError(t, err)
			assert.Len(t, recordByID(t, result.Document, "1").Children, tt.want)
		})
	}
}

func TestMerge_KeyMultisetRoundTrip(t *testing.T) {
	a := `<root><r id="1"/><r id="2"/><r id="3"/></root>`
	b := `<root><r id="3"/><r id="4"/><r id="1"/></root>`

	result := mergeStrings(t, DefaultConfig(), a, b)
	data, err := document.Marshal(result.Document)
	require.NoError(t, err)

	reparsed, err := document.ParseWithOptions(document.WithBytes(data))
	require.NoError(t, err)

	var keys []string
	for _, rec := range reparsed.Document.Records() {
		keys = append(keys, attrValue(rec, "id"))
	}
	slices.Sort(keys)
	assert.Equal(t, []string{"1", "2", "3", "4"}, keys)
}

func TestMerge_Files(t *testing.T) {
	result, err := MergeWithOptions(
		WithFilePaths(
			filepath.Join("..", "testdata", "catalog-a.xml"),
			filepath.Join("..", "testdata", "catalog-b.xml"),
		),
	)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<catalog version="1" source="feed">
  <item id="1" name="Widget" price="9.99"/>
  <item id="2" name="Gadget" price="17.50" stock="4">
    <tag>tools</tag>
    <tag>sale</tag>
  </item>
  <item name="Orphan"/>
  <item id="3" name="Doohickey"/>
</catalog>
`
	assert.Equal(t, want, marshal(t, result.Document))
	assert.Equal(t, Stats{
		LeftRecords:  3,
		RightRecords: 2,
		Matched:      1,
		LeftOnly:     2,
		RightOnly:    1,
		Keyless:      1,
		Output:       4,
	}, result.Stats)
	assert.Equal(t, 1, result.CollisionCount)
	assert.Nil(t, result.CollisionDetails)

	require.Len(t, result.StructuredWarnings, 1)
	w := result.StructuredWarnings[0]
	assert.Equal(t, WarnPropertyNotFound, w.Category)
	assert.Equal(t, 7, w.Line)
	assert.Equal(t, "catalog/item[2]", w.Path)
	assert.Contains(t, w.SourceFile, "catalog-a.xml")
}

func TestMerge_OrderModes(t *testing.T) {
	a := `<root><r id="a1"/><r id="m1"/><r/><r id="m2"/></root>`
	b := `<root><r id="b1"/><r id="m2"/><r id="m1"/><r kind="nokey"/></root>`

	tests := []struct {
		name  string
		order OrderMode
		want  string
	}{
		{
			name:  "document",
			order: OrderDocument,
			want:  `<root><r id="a1"/><r id="m1"/><r/><r id="m2"/><r id="b1"/><r kind="nokey"/></root>`,
		},
		{
			name:  "grouped",
			order: OrderGrouped,
			want:  `<root><r id="m1"/><r id="m2"/><r id="a1"/><r/><r id="b1"/><r kind="nokey"/></root>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Order = tt.order
			result := mergeStrings(t, config, a, b)

			data, err := document.MarshalIndent(result.Document, "")
			require.NoError(t, err)
			assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>`+"\n"+tt.want+"\n", string(data))
			assert.Equal(t, 2, result.Stats.Matched)
			assert.Equal(t, 2, result.Stats.Keyless)
		})
	}
}

func TestMerge_DuplicateKeys(t *testing.T) {
	a := "<root>\n<r id=\"1\" v=\"first\"/>\n<r id=\"2\"/>\n<r id=\"1\" v=\"second\"/>\n</root>"
	b := `<root><r id="3"/></root>`

	result := mergeStrings(t, DefaultConfig(), a, b)

	records := result.Document.Records()
	require.Len(t, records, 3)
	// The last record wins and keeps the first occurrence's position.
	assert.Equal(t, "1", attrValue(records[0], "id"))
	assert.Equal(t, "second", attrValue(records[0], "v"))
	assert.Equal(t, "2", attrValue(records[1], "id"))
	assert.Equal(t, "3", attrValue(records[2], "id"))

	assert.Equal(t, 1, result.Stats.Duplicates)
	dups := result.StructuredWarnings.ByCategory(WarnDuplicateKey)
	require.Len(t, dups, 1)
	assert.Equal(t, 4, dups[0].Line)
	assert.Equal(t, "a.xml", dups[0].SourceFile)
	assert.Contains(t, dups[0].Message, "line 2")
}

func TestMerge_AbsentKeyNeverMatches(t *testing.T) {
	// Neither record has "sku"; they must not be merged with each other.
	a := `<root><r id="1" name="left"/></root>`
	b := `<root><r id="1" name="right"/></root>`

	config := DefaultConfig()
	config.Properties = []string{"id", "sku"}
	result := mergeStrings(t, config, a, b)

	require.Len(t, result.Document.Records(), 2)
	assert.Equal(t, 0, result.Stats.Matched)
	assert.Equal(t, 2, result.Stats.Keyless)

	missing := result.StructuredWarnings.ByCategory(WarnPropertyNotFound)
	require.Len(t, missing, 2)
	assert.Contains(t, missing[0].Message, "sku")
	assert.Equal(t, []string{"sku"}, missing[0].Context["missing"])
}

func TestMerge_Children(t *testing.T) {
	a := `<root><r id="1"><a/><b>1</b></r></root>`
	b := `<root><r id="1"><c/></r></root>`

	tests := []struct {
		name          string
		mergeChildren bool
		strategy      MergeStrategy
		want          []string
	}{
		{"concatenate", true, StrategyAcceptRight, []string{"a", "b", "c"}},
		{"concatenate ignores strategy", true, StrategyAcceptLeft, []string{"a", "b", "c"}},
		{"replace with right", false, StrategyAcceptRight, []string{"c"}},
		{"replace with left", false, StrategyAcceptLeft, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.MergeChildren = tt.mergeChildren
			config.Strategy = tt.strategy
			result := mergeStrings(t, config, a, b)

			var names []string
			for _, c := range result.Document.Records()[0].Elements() {
				names = append(names, c.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestMerge_KeyNormalization(t *testing.T) {
	a := `<root><r id="ABC"/><r id=" x "/></root>`
	b := `<root><r id="abc"/><r id="x"/></root>`

	tests := []struct {
		name       string
		ignoreCase bool
		trimSpace  bool
		matched    int
	}{
		{"exact", false, false, 0},
		{"ignore case", true, false, 1},
		{"trim space", false, true, 1},
		{"both", true, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.IgnoreCase = tt.ignoreCase
			config.TrimSpace = tt.trimSpace
			result := mergeStrings(t, config, a, b)
			assert.Equal(t, tt.matched, result.Stats.Matched)
		})
	}
}

func TestMerge_MultipleProperties(t *testing.T) {
	a := `<root><r id="1" lang="en" v="a"/><r id="1" lang="de" v="b"/></root>`
	b := `<root><r id="1" lang="de" w="c"/></root>`

	config := DefaultConfig()
	config.Properties = []string{"id", "@lang"}
	result := mergeStrings(t, config, a, b)

	records := result.Document.Records()
	require.Len(t, records, 2)
	assert.Equal(t, "", attrValue(records[0], "w"))
	assert.Equal(t, "c", attrValue(records[1], "w"))
	assert.Equal(t, 0, result.Stats.Duplicates)
}

func TestMerge_ChildElementProperty(t *testing.T) {
	a := `<root><book><isbn> 978-1 </isbn><title>Go</title></book></root>`
	b := `<root><book price="10"><isbn>978-1</isbn></book></root>`

	config := DefaultConfig()
	config.Properties = []string{"isbn"}
	result := mergeStrings(t, config, a, b)

	records := result.Document.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "10", attrValue(records[0], "price"))
}

func TestMerge_Roots(t *testing.T) {
	result := mergeStrings(t, DefaultConfig(),
		`<left a="1" shared="left"/>`,
		`<right shared="right" b="2"/>`,
	)
	assert.Equal(t, "left", result.Document.Root.Name)
	assert.Equal(t, []document.Attr{
		{Name: "a", Value: "1"},
		{Name: "shared", Value: "left"},
		{Name: "b", Value: "2"},
	}, result.Document.Root.Attrs)

	mismatch := result.StructuredWarnings.ByCategory(WarnRootMismatch)
	require.Len(t, mismatch, 1)
	assert.Empty(t, result.Document.Records())
}

func TestMerge_RecordTagMismatch(t *testing.T) {
	result := mergeStrings(t, DefaultConfig(),
		`<root><book id="1"/></root>`,
		`<root><novel id="1" pages="300"/></root>`,
	)
	records := result.Document.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "book", records[0].Name)
	assert.Equal(t, "300", attrValue(records[0], "pages"))
	assert.Len(t, result.StructuredWarnings.ByCategory(WarnRecordTagMismatch), 1)
}

func TestMerge_Errors(t *testing.T) {
	a := parseDoc(t, "a.xml", `<root/>`)
	b := parseDoc(t, "b.xml", `<root/>`)

	tests := []struct {
		name   string
		config func(*MergerConfig)
		target error
	}{
		{"empty property list", func(c *MergerConfig) { c.Properties = []string{} }, xmlerrors.ErrMissingPropertyList},
		{"bad property", func(c *MergerConfig) { c.Properties = []string{"a//b"} }, xmlerrors.ErrConfig},
		{"unknown strategy", func(c *MergerConfig) { c.Strategy = "fail" }, xmlerrors.ErrConfig},
		{"unknown order", func(c *MergerConfig) { c.Order = "sorted" }, xmlerrors.ErrConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.config(&config)
			_, err := New(config).Merge(a, b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	_, err := New(DefaultConfig()).Merge(nil, b)
	assert.Error(t, err)
	_, err = New(DefaultConfig()).Merge(a, &document.Document{})
	assert.Error(t, err)
}

func TestMerge_ZeroConfigUsesDefaults(t *testing.T) {
	config := MergerConfig{Properties: []string{"id"}}
	result := mergeStrings(t, config,
		`<root><r id="1" v="a"/></root>`,
		`<root><r id="1" v="b"/></root>`,
	)
	assert.Equal(t, "b", attrValue(result.Document.Records()[0], "v"))
}

func TestFingerprint(t *testing.T) {
	a := `<root><r id="1"/></root>`
	b := `<root><r id="2"/></root>`

	r1 := mergeStrings(t, DefaultConfig(), a, b)
	r2 := mergeStrings(t, DefaultConfig(), a, b)
	r3 := mergeStrings(t, DefaultConfig(), b, a)

	f1, err := r1.Fingerprint()
	require.NoError(t, err)
	f2, err := r2.Fingerprint()
	require.NoError(t, err)
	f3, err := r3.Fingerprint()
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
	assert.NotEqual(t, f1, f3)

	_, err = (&MergeResult{}).Fingerprint()
	assert.Error(t, err)
}

func TestWriteResult(t *testing.T) {
	result := mergeStrings(t, DefaultConfig(),
		`<root><r id="1"/></root>`,
		`<root><r id="1" x="y"/></root>`,
	)
	out := filepath.Join(t.TempDir(), "out.xml")
	require.NoError(t, WriteResult(result, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, marshal(t, result.Document), string(data))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteResult_Errors(t *testing.T) {
	err := WriteResult(nil, filepath.Join(t.TempDir(), "out.xml"))
	assert.True(t, errors.Is(err, xmlerrors.ErrOutputWrite))

	result := mergeStrings(t, DefaultConfig(), `<root/>`, `<root/>`)
	err = WriteResult(result, filepath.Join(t.TempDir(), "missing", "out.xml"))
	require.Error(t, err)
	var werr *xmlerrors.OutputWriteError
	require.True(t, errors.As(err, &werr))
	assert.Contains(t, werr.Path, "out.xml")
}

func TestMergeWithOptions_MalformedInputLeavesOutputUntouched(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.xml")
	require.NoError(t, os.WriteFile(out, []byte("previous"), 0o600))

	result, err := MergeWithOptions(WithFilePaths(
		filepath.Join("..", "testdata", "catalog-a.xml"),
		filepath.Join("..", "testdata", "malformed.xml"),
	))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, xmlerrors.ErrMalformedInput))

	var merr *xmlerrors.MalformedInputError
	require.True(t, errors.As(err, &merr))
	assert.Contains(t, merr.Path, "malformed.xml")
	assert.Positive(t, merr.Line)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestMergeWithOptions_MissingFile(t *testing.T) {
	_, err := MergeWithOptions(WithFilePaths(
		filepath.Join("..", "testdata", "catalog-a.xml"),
		filepath.Join(t.TempDir(), "nope.xml"),
	))
	require.Error(t, err)
	assert.True(t, errors.Is(err, xmlerrors.ErrMalformedInput))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

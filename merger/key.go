package merger

import (
	"strconv"
	"strings"

	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/pathutil"
)

// Key is the tuple of property values identifying a record.
type Key struct {
	// Values holds one normalized value per match property, in property order
	Values []string
}

// String returns the key values joined for display, e.g. "1" or "1, en".
func (k Key) String() string {
	return strings.Join(k.Values, ", ")
}

// encode returns an unambiguous map key for the tuple: each value is
// prefixed with its length so ("a,b") and ("a","b") never collide.
func (k Key) encode() string {
	var sb strings.Builder
	for _, v := range k.Values {
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteByte(':')
		sb.WriteString(v)
	}
	return sb.String()
}

// KeyOf computes the key of record. When any property is missing, ok is
// false and missing lists the properties that were not found.
func (m *Merger) KeyOf(record *document.Node) (key Key, missing []string, ok bool) {
	if m.paths == nil {
		if err := m.validate(); err != nil {
			return Key{}, nil, false
		}
	}
	values := make([]string, 0, len(m.paths))
	for _, p := range m.paths {
		v, found := p.Eval(record)
		if !found {
			missing = append(missing, p.String())
			continue
		}
		values = append(values, m.normalize(v))
	}
	if len(missing) > 0 {
		return Key{}, missing, false
	}
	return Key{Values: values}, nil, true
}

// normalize applies the configured key value normalization.
func (m *Merger) normalize(v string) string {
	if m.config.TrimSpace {
		v = strings.TrimSpace(v)
	}
	if m.config.IgnoreCase {
		v = m.folder.String(v)
	}
	return v
}

// RecordKey is the key report for a single record.
type RecordKey struct {
	// Index is the 0-based position of the record among the root's records
	Index int `json:"index" yaml:"index"`
	// Tag is the record's element name
	Tag string `json:"tag" yaml:"tag"`
	// Line is the record's 1-based source line (0 if unknown)
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
	// Key holds the key values when all properties were found
	Key []string `json:"key,omitempty" yaml:"key,omitempty"`
	// Missing lists the properties that were not found
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Keys reports the key of every record of doc, for inspecting what would
// match before merging.
func (m *Merger) Keys(doc *document.Document) ([]RecordKey, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	records := doc.Records()
	out := make([]RecordKey, 0, len(records))
	for i, rec := range records {
		rk := RecordKey{Index: i, Tag: rec.Name, Line: rec.Line}
		key, missing, ok := m.KeyOf(rec)
		if ok {
			rk.Key = key.Values
		} else {
			rk.Missing = missing
		}
		out = append(out, rk)
	}
	return out, nil
}

// indexEntry is one distinct key of a document.
type indexEntry struct {
	key    string
	values Key
	// record is the last-seen record with this key
	record *document.Node
}

func (e *indexEntry) displayKey() string {
	return e.values.String()
}

// indexSlot is one output position of a document: a keyed entry or a
// record without a key.
type indexSlot struct {
	entry   *indexEntry
	keyless *document.Node
}

// docIndex maps keys to records while remembering first-occurrence order.
type docIndex struct {
	slots []indexSlot
	byKey map[string]*indexEntry
}

// buildIndex indexes the records of doc. A later record with an existing key
// replaces the earlier one in place; records missing a property become
// keyless slots.
func (m *Merger) buildIndex(doc *document.Document, result *MergeResult) *docIndex {
	records := doc.Records()
	idx := &docIndex{
		slots: make([]indexSlot, 0, len(records)),
		byKey: make(map[string]*indexEntry, len(records)),
	}
	path := pathutil.Get()
	defer pathutil.Put(path)
	path.Push(doc.Root.Name)

	for i, rec := range records {
		key, missing, ok := m.KeyOf(rec)
		if !ok {
			idx.slots = append(idx.slots, indexSlot{keyless: rec})
			result.Stats.Keyless++
			path.Push(rec.Name)
			path.PushIndex(i)
			w := NewPropertyNotFoundWarning(path.String(), rec.Name, missing, doc.SourcePath, rec.Line)
			path.Pop()
			path.Pop()
			result.AddWarning(w)
			mergerLogger.Debug(w.Message, "source", doc.SourcePath, "line", rec.Line)
			continue
		}
		enc := key.encode()
		if existing, dup := idx.byKey[enc]; dup {
			result.Stats.Duplicates++
			result.AddWarning(NewDuplicateKeyWarning(key.String(), doc.SourcePath, existing.record.Line, rec.Line))
			existing.record = rec
			continue
		}
		entry := &indexEntry{key: enc, values: key, record: rec}
		idx.byKey[enc] = entry
		idx.slots = append(idx.slots, indexSlot{entry: entry})
	}
	return idx
}

// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/xmlmerge/document"
)

// NewSimpleCatalog creates a small catalog document for testing.
// Contains two <item> records keyed by id with no children.
func NewSimpleCatalog() *document.Document {
	doc := document.New("catalog")
	doc.Root.AppendChild(document.NewElement("item",
		document.Attr{Name: "id", Value: "1"},
		document.Attr{Name: "name", Value: "Widget"},
	))
	doc.Root.AppendChild(document.NewElement("item",
		document.Attr{Name: "id", Value: "2"},
		document.Attr{Name: "name", Value: "Gadget"},
	))
	return doc
}

// NewDetailedCatalog creates a catalog whose records carry child elements
// and one record without an id.
func NewDetailedCatalog() *document.Document {
	doc := document.New("catalog", document.Attr{Name: "version", Value: "2"})

	item := document.NewElement("item", document.Attr{Name: "id", Value: "2"}, document.Attr{Name: "price", Value: "17.50"})
	tag := document.NewElement("tag")
	tag.AppendChild(document.NewText("sale"))
	item.AppendChild(tag)
	doc.Root.AppendChild(item)

	doc.Root.AppendChild(document.NewElement("item",
		document.Attr{Name: "id", Value: "3"},
		document.Attr{Name: "name", Value: "Doohickey"},
	))
	doc.Root.AppendChild(document.NewElement("item", document.Attr{Name: "name", Value: "Orphan"}))
	return doc
}

// WriteTempXML serializes a document and writes it to a temporary file.
// Returns the path to the temporary file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTempXML(t *testing.T, doc *document.Document) string {
	t.Helper()

	data, err := document.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to XML: %v", err)
	}
	return WriteTempFile(t, "test.xml", string(data))
}

// WriteTempFile writes content verbatim to name inside a fresh temporary
// directory. Use it for inputs that must not be normalized, such as
// malformed XML.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return tmpFile
}

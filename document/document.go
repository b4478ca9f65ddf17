package document

// Document is a loaded XML document: one root element whose element
// children are the records.
//
// Prolog content (XML declaration, DOCTYPE, comments before the root) is not
// retained; the serializer always writes a UTF-8 declaration.
type Document struct {
	// Root is the document element.
	Root *Node
	// SourcePath is the path or URL the document was loaded from ("" for in-memory input).
	SourcePath string
}

// New creates a document with an empty root element.
func New(rootName string, attrs ...Attr) *Document {
	return &Document{Root: NewElement(rootName, attrs...)}
}

// Records returns the element children of the root in document order.
func (d *Document) Records() []*Node {
	if d == nil || d.Root == nil {
		return nil
	}
	return d.Root.Elements()
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Root: d.Root.Clone(), SourcePath: d.SourcePath}
}

// Stats contains statistical information about a document
type Stats struct {
	RecordCount  int // Element children of the root
	ElementCount int // All elements, root included
	MaxDepth     int // Deepest element nesting, root is depth 1
}

// GetStats walks the document and returns its statistics.
func GetStats(d *Document) Stats {
	var s Stats
	if d == nil || d.Root == nil {
		return s
	}
	s.RecordCount = len(d.Records())
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		s.ElementCount++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		for _, c := range n.Children {
			if c.Kind == ElementNode {
				walk(c, depth+1)
			}
		}
	}
	walk(d.Root, 1)
	return s
}

package document

import "strings"

// NodeKind identifies what a Node holds.
type NodeKind int

const (
	// ElementNode is a tagged element with attributes and children.
	ElementNode NodeKind = iota
	// TextNode is character data (CDATA sections are folded into text).
	TextNode
	// CommentNode is an XML comment.
	CommentNode
	// ProcInstNode is a processing instruction inside the root element.
	ProcInstNode
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	case ProcInstNode:
		return "procinst"
	default:
		return "unknown"
	}
}

// Attr is a single attribute. Name is the qualified name as written in the
// source ("id", "xml:lang", "xmlns:x").
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the ordered document tree.
//
// For elements, Name is the qualified tag name and Attrs and Children keep
// source order. For text and comments, Data holds the content. For
// processing instructions, Name is the target and Data the instruction.
type Node struct {
	Kind     NodeKind
	Name     string
	Attrs    []Attr
	Data     string
	Children []*Node

	// Line is the 1-based line of the start tag in its source (0 if unknown).
	Line int
}

// NewElement creates an element node with the given attributes.
func NewElement(name string, attrs ...Attr) *Node {
	return &Node{Kind: ElementNode, Name: name, Attrs: attrs}
}

// NewText creates a text node.
func NewText(data string) *Node {
	return &Node{Kind: TextNode, Data: data}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == ElementNode
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the value of an existing attribute in place, or appends
// a new attribute at the end.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Elements returns the element children of n in order.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// FirstElement returns the first element child named name, or nil.
func (n *Node) FirstElement(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			return c
		}
	}
	return nil
}

// Text returns the concatenated direct text children of n.
func (n *Node) Text() string {
	var b strings.Builder
	for _, c := range n.Children {
		if c.Kind == TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind: n.Kind,
		Name: n.Name,
		Data: n.Data,
		Line: n.Line,
	}
	if n.Attrs != nil {
		c.Attrs = make([]Attr, len(n.Attrs))
		copy(c.Attrs, n.Attrs)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// hasMixedContent reports whether n has any text child that is not whitespace.
func (n *Node) hasMixedContent() bool {
	for _, c := range n.Children {
		if c.Kind == TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}
	return false
}

// hasElementChild reports whether any direct child of n is an element.
func (n *Node) hasElementChild() bool {
	for _, c := range n.Children {
		if c.Kind == ElementNode {
			return true
		}
	}
	return false
}

// hasText reports whether any direct child of n is text.
func (n *Node) hasText() bool {
	for _, c := range n.Children {
		if c.Kind == TextNode {
			return true
		}
	}
	return false
}

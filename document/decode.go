package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	"github.com/erraggy/xmlmerge/xmlerrors"
)

// decoder builds a Document from raw XML bytes.
//
// RawToken is used instead of Token so that namespace prefixes survive
// untouched; the element stack below performs the start/end matching that
// Token would otherwise do.
type decoder struct {
	source             string
	preserveWhitespace bool

	dec   *xml.Decoder
	root  *Node
	stack []*Node
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func decode(data []byte, source string, preserveWhitespace bool) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	d := &decoder{
		source:             source,
		preserveWhitespace: preserveWhitespace,
		dec:                xml.NewDecoder(bytes.NewReader(data)),
	}
	d.dec.Strict = true
	d.dec.CharsetReader = charsetReader
	return d.run()
}

func (d *decoder) run() (*Document, error) {
	for {
		tok, err := d.dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, d.syntaxError(err)
		}
		if err := d.handle(tok); err != nil {
			return nil, err
		}
	}

	if len(d.stack) > 0 {
		open := d.stack[len(d.stack)-1]
		return nil, d.fail(open.Line, 0, fmt.Sprintf("element <%s> is never closed", open.Name))
	}
	if d.root == nil {
		return nil, d.fail(0, 0, "no root element")
	}
	if !d.preserveWhitespace {
		dropIgnorableWhitespace(d.root, false)
	}
	return &Document{Root: d.root, SourcePath: d.source}, nil
}

func (d *decoder) handle(tok xml.Token) error {
	switch t := tok.(type) {
	case xml.StartElement:
		line, _ := d.dec.InputPos()
		n := &Node{Kind: ElementNode, Name: qualifiedName(t.Name), Line: line}
		if len(t.Attr) > 0 {
			n.Attrs = make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				name := qualifiedName(a.Name)
				if _, dup := n.Attr(name); dup {
					return d.failHere(fmt.Sprintf("attribute %q repeated on <%s>", name, n.Name))
				}
				n.Attrs = append(n.Attrs, Attr{Name: name, Value: a.Value})
			}
		}
		if len(d.stack) == 0 {
			if d.root != nil {
				return d.failHere(fmt.Sprintf("second root element <%s>", n.Name))
			}
			d.root = n
		} else {
			d.top().AppendChild(n)
		}
		d.stack = append(d.stack, n)

	case xml.EndElement:
		name := qualifiedName(t.Name)
		if len(d.stack) == 0 {
			return d.failHere(fmt.Sprintf("unexpected end element </%s>", name))
		}
		if open := d.top(); open.Name != name {
			return d.failHere(fmt.Sprintf("element <%s> closed by </%s>", open.Name, name))
		}
		d.stack = d.stack[:len(d.stack)-1]

	case xml.CharData:
		if len(d.stack) == 0 {
			if len(bytes.TrimSpace(t)) > 0 {
				return d.failHere("text outside the root element")
			}
			return nil
		}
		parent := d.top()
		if last := len(parent.Children) - 1; last >= 0 && parent.Children[last].Kind == TextNode {
			parent.Children[last].Data += string(t)
			return nil
		}
		parent.AppendChild(NewText(string(t)))

	case xml.Comment:
		if len(d.stack) > 0 {
			d.top().AppendChild(&Node{Kind: CommentNode, Data: string(t)})
		}

	case xml.ProcInst:
		if len(d.stack) > 0 {
			d.top().AppendChild(&Node{Kind: ProcInstNode, Name: t.Target, Data: string(t.Inst)})
		}

	case xml.Directive:
		if len(d.stack) > 0 {
			return d.failHere("markup declaration inside an element")
		}
		if d.root != nil {
			return d.failHere("markup declaration after the root element")
		}
	}
	return nil
}

func (d *decoder) top() *Node {
	return d.stack[len(d.stack)-1]
}

func (d *decoder) failHere(msg string) error {
	line, col := d.dec.InputPos()
	return d.fail(line, col, msg)
}

func (d *decoder) fail(line, col int, msg string) error {
	return &xmlerrors.MalformedInputError{
		Path:    d.source,
		Line:    line,
		Column:  col,
		Message: msg,
	}
}

func (d *decoder) syntaxError(err error) error {
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		return &xmlerrors.MalformedInputError{
			Path:    d.source,
			Line:    syn.Line,
			Message: syn.Msg,
		}
	}
	line, col := d.dec.InputPos()
	return &xmlerrors.MalformedInputError{Path: d.source, Line: line, Column: col, Cause: err}
}

// qualifiedName rebuilds "prefix:local" from a raw token name.
func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// charsetReader decodes non-UTF-8 inputs that declare their encoding.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(label)))
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// dropIgnorableWhitespace removes whitespace-only text from elements that
// also have element children. Leaf elements keep their text, as do mixed
// content and anything under xml:space="preserve".
func dropIgnorableWhitespace(n *Node, preserve bool) {
	if n.Kind != ElementNode {
		return
	}
	switch v, _ := n.Attr("xml:space"); v {
	case "preserve":
		preserve = true
	case "default":
		preserve = false
	}
	if !preserve && n.hasText() && n.hasElementChild() && !n.hasMixedContent() {
		n.Children = slices.DeleteFunc(n.Children, func(c *Node) bool {
			return c.Kind == TextNode
		})
	}
	for _, c := range n.Children {
		dropIgnorableWhitespace(c, preserve)
	}
}

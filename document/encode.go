package document

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/erraggy/xmlmerge/internal/fileutil"
	"github.com/erraggy/xmlmerge/xmlerrors"
)

// DefaultIndent is the indentation used by Marshal.
const DefaultIndent = "  "

// Marshal serializes d as UTF-8 XML with DefaultIndent.
func Marshal(d *Document) ([]byte, error) {
	return MarshalIndent(d, DefaultIndent)
}

// MarshalIndent serializes d as UTF-8 XML. Element-only content is placed
// on separate lines indented by indent; an empty indent writes the tree on
// a single line. Elements with text keep their content inline.
func MarshalIndent(d *Document, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, d, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes d to w. See MarshalIndent.
func Encode(w io.Writer, d *Document, indent string) error {
	if d == nil || d.Root == nil {
		return fmt.Errorf("document: nothing to encode: missing root element")
	}
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw, indent: indent}
	e.str(xml.Header)
	e.node(d.Root, 0, indent != "")
	e.str("\n")
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// WriteFile serializes d and writes it to path atomically with
// owner-only permissions. Nothing is written when serialization fails.
func WriteFile(d *Document, path string) error {
	data, err := Marshal(d)
	if err != nil {
		return &xmlerrors.OutputWriteError{Path: path, Op: "marshal", Cause: err}
	}
	if err := fileutil.WriteAtomic(path, data, fileutil.OwnerReadWrite); err != nil {
		op := ""
		var werr *fileutil.WriteError
		if errors.As(err, &werr) {
			op = string(werr.Step)
			err = werr.Err
		}
		return &xmlerrors.OutputWriteError{Path: path, Op: op, Cause: err}
	}
	return nil
}

type encoder struct {
	w      *bufio.Writer
	indent string
	err    error
}

func (e *encoder) str(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

// node writes n. pretty is false inside mixed content, where added
// whitespace would change the text.
func (e *encoder) node(n *Node, depth int, pretty bool) {
	switch n.Kind {
	case TextNode:
		e.str(escapeText(n.Data))
	case CommentNode:
		e.str("<!--" + n.Data + "-->")
	case ProcInstNode:
		if n.Data == "" {
			e.str("<?" + n.Name + "?>")
		} else {
			e.str("<?" + n.Name + " " + n.Data + "?>")
		}
	case ElementNode:
		e.element(n, depth, pretty)
	}
}

func (e *encoder) element(n *Node, depth int, pretty bool) {
	e.str("<" + n.Name)
	for _, a := range n.Attrs {
		e.str(" " + a.Name + `="` + escapeAttr(a.Value) + `"`)
	}
	if len(n.Children) == 0 {
		e.str("/>")
		return
	}
	e.str(">")

	childPretty := pretty && !n.hasText()
	for _, c := range n.Children {
		if childPretty {
			e.str("\n" + strings.Repeat(e.indent, depth+1))
		}
		e.node(c, depth+1, childPretty)
	}
	if childPretty {
		e.str("\n" + strings.Repeat(e.indent, depth))
	}
	e.str("</" + n.Name + ">")
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

func escapeText(s string) string { return textEscaper.Replace(s) }

func escapeAttr(s string) string { return attrEscaper.Replace(s) }

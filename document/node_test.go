package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_SetAttr(t *testing.T) {
	n := NewElement("item", Attr{Name: "id", Value: "1"}, Attr{Name: "name", Value: "A"})

	n.SetAttr("name", "B")
	n.SetAttr("color", "red")

	assert.Equal(t, []Attr{
		{Name: "id", Value: "1"},
		{Name: "name", Value: "B"},
		{Name: "color", Value: "red"},
	}, n.Attrs)
}

func TestNode_CloneIsDeep(t *testing.T) {
	orig := NewElement("item", Attr{Name: "id", Value: "1"})
	child := NewElement("name")
	child.AppendChild(NewText("A"))
	orig.AppendChild(child)

	clone := orig.Clone()
	clone.SetAttr("id", "2")
	clone.Children[0].Children[0].Data = "changed"
	clone.AppendChild(NewElement("extra"))

	id, _ := orig.Attr("id")
	assert.Equal(t, "1", id)
	assert.Equal(t, "A", orig.FirstElement("name").Text())
	assert.Len(t, orig.Children, 1)
}

func TestNode_Elements(t *testing.T) {
	n := NewElement("r")
	n.AppendChild(NewText("x"))
	n.AppendChild(NewElement("a"))
	n.AppendChild(&Node{Kind: CommentNode, Data: "c"})
	n.AppendChild(NewElement("b"))

	elems := n.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, "a", elems[0].Name)
	assert.Equal(t, "b", elems[1].Name)
	assert.Nil(t, n.FirstElement("missing"))
}

func TestNodeKind_String(t *testing.T) {
	assert.Equal(t, "element", ElementNode.String())
	assert.Equal(t, "text", TextNode.String())
	assert.Equal(t, "comment", CommentNode.String())
	assert.Equal(t, "procinst", ProcInstNode.String())
	assert.Equal(t, "unknown", NodeKind(42).String())
}

func TestDocument_CloneAndNew(t *testing.T) {
	doc := New("items", Attr{Name: "v", Value: "1"})
	doc.Root.AppendChild(NewElement("item"))

	clone := doc.Clone()
	clone.Root.AppendChild(NewElement("item"))

	assert.Len(t, doc.Records(), 1)
	assert.Len(t, clone.Records(), 2)

	var nilDoc *Document
	assert.Nil(t, nilDoc.Records())
	assert.Nil(t, nilDoc.Clone())
}

// Package document loads XML into an ordered element tree and writes it
// back out.
//
// The tree keeps what a record merge needs to copy verbatim: element and
// attribute order, qualified names with their namespace prefixes, text,
// comments and processing instructions inside the root element. Prolog
// content is dropped and the serializer writes its own UTF-8 declaration.
//
// # Loading
//
//	result, err := document.ParseWithOptions(document.WithFilePath("left.xml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, rec := range result.Document.Records() {
//		id, _ := rec.Attr("id")
//		fmt.Println(rec.Name, id)
//	}
//
// Files are read through github.com/viant/afs, so afs URLs such as
// file:///data/left.xml or mem://localhost/left.xml work as well as plain
// paths. Inputs that declare a non-UTF-8 encoding are transcoded with
// golang.org/x/text.
//
// # Well-formedness
//
// Loading fails with *xmlerrors.MalformedInputError when the input has a
// syntax error, mismatched or unclosed tags, a repeated attribute, more than
// one root element, text outside the root, or when it cannot be read at all.
//
// # Whitespace
//
// Whitespace-only text is dropped from elements that also contain elements,
// and the serializer re-indents them; see WithPreserveWhitespace. A leaf
// element keeps its text even when it is only whitespace, and nothing is
// dropped inside xml:space="preserve". Text in mixed content is never touched.
package document

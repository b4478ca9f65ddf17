// Package xmlmerge merges two XML documents by joining their record elements
// on a configurable set of match properties.
//
// # Overview
//
// The library consists of two primary packages:
//
//   - document: Load XML into an ordered element tree and serialize it back
//   - merger: Join the records of two documents by key
//
// A record is an element child of a document's root element. Its key is the
// tuple of values selected by the match properties (attribute names or
// simple child paths, default "id"). Records whose keys are equal are merged:
// attributes are united with the second document winning on conflicts, and
// children are concatenated. Records present on one side only are copied
// through unchanged.
//
// # Quick Start
//
// Merge two files on the default "id" property:
//
//	import "github.com/erraggy/xmlmerge/merger"
//
//	result, err := merger.MergeWithOptions(
//		merger.WithFilePaths("left.xml", "right.xml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	err = merger.WriteResult(result, "output.xml")
//
// Merge on a composite key:
//
//	result, err := merger.MergeWithOptions(
//		merger.WithFilePaths("left.xml", "right.xml"),
//		merger.WithProperties("sku", "@region"),
//	)
//
// # Command Line
//
// The xmlmerge binary wraps the same packages:
//
//	xmlmerge left.xml right.xml sku region -o merged.xml
//
// # Error Handling
//
// Errors returned by the packages can be classified with errors.Is and
// errors.As against the types in [github.com/erraggy/xmlmerge/xmlerrors].
package xmlmerge

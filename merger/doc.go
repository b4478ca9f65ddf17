// Package merger joins the records of two XML documents on match properties.
//
// # Overview
//
// The records of a document are the element children of its root. Each
// record's key is the tuple of its match property values (default: the "id"
// attribute). Records whose keys appear in both documents are merged into a
// single record; every other record is copied through unchanged.
//
// # Usage
//
//	result, err := merger.MergeWithOptions(
//		merger.WithFilePaths("a.xml", "b.xml"),
//		merger.WithProperties("id"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := merger.WriteResult(result, "output.xml"); err != nil {
//		log.Fatal(err)
//	}
//
// For repeated merges with the same settings, create a Merger:
//
//	m := merger.New(merger.DefaultConfig())
//	result, err := m.Merge(docA, docB)
//
// # Merged Records
//
// A merged record keeps the first document's tag. Its attributes are the
// union of both sides: attributes only on the first side keep their position,
// attributes only on the second side are appended. When both sides carry an
// attribute with different values, the strategy decides the winner:
//
//   - StrategyAcceptRight (default): the second document's value wins
//   - StrategyAcceptLeft: the first document's value wins
//
// Children are the first record's children followed by the second's. With
// MergeChildren disabled only the winning side's children are kept.
//
// # Keys
//
// Properties are small path expressions (see the xpath syntax: "id", "@sku",
// "meta/code", "meta/@lang"). A record missing any property never matches;
// it is passed through and reported with a property_not_found warning. When a
// key repeats within one document, the last record wins and takes the
// position of the first; a duplicate_key warning is reported.
//
// # Ordering
//
// OrderDocument (default) writes the first document's records in order, with
// matched records merged in place, then the records only in the second
// document. OrderGrouped writes matched records, then first-only, then
// second-only records.
//
// # Errors
//
// Unreadable or non-well-formed input is an *xmlerrors.MalformedInputError.
// An empty property list is an *xmlerrors.MissingPropertyListError. Invalid
// options are *xmlerrors.ConfigError values. WriteResult failures are
// *xmlerrors.OutputWriteError values; an existing output is left untouched.
package merger

// Package xmlerrors provides structured error types for the xmlmerge library.
//
// Import path: github.com/erraggy/xmlmerge/xmlerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// so callers can tell a bad input file apart from a bad configuration or a
// failed write.
//
// # Error Types
//
//   - [MalformedInputError]: input is not well-formed XML, or cannot be read
//   - [MissingPropertyListError]: no match properties could be resolved
//   - [OutputWriteError]: the merged document could not be written
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrMalformedInput]: Matches any [MalformedInputError]
//   - [ErrMissingPropertyList]: Matches any [MissingPropertyListError]
//   - [ErrOutputWrite]: Matches any [OutputWriteError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := merger.MergeWithOptions(merger.WithFilePaths("a.xml", "b.xml"))
//	if errors.Is(err, xmlerrors.ErrMalformedInput) {
//	    // one of the inputs is broken; nothing was written
//	}
//
//	var malformed *xmlerrors.MalformedInputError
//	if errors.As(err, &malformed) {
//	    fmt.Printf("%s:%d:%d\n", malformed.Path, malformed.Line, malformed.Column)
//	}
//
// # Error Chaining
//
// All error types that wrap another error expose it through Unwrap, so
// conditions such as [os.ErrNotExist] stay reachable:
//
//	if errors.Is(err, os.ErrNotExist) {
//	    // the input path does not exist
//	}
package xmlerrors

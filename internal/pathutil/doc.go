// Package pathutil provides record path building and output path checks.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// element paths such as "catalog/item[3]" incrementally, materializing the
// string only when a warning or error needs it.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("catalog")
//	path.Push("item")
//	path.PushIndex(2) // "catalog/item[2]"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] cleans an output file path and rejects symlinks.
// [SameFile] reports whether two paths name the same file, so an output
// never overwrites one of its inputs.
package pathutil

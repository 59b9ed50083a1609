// Package pipeline implements the stages that turn a blueprint source into
// an HTML page.
//
// The stages run in this order:
//   - include expansion, which splices referenced files into the source
//   - input normalization (line endings and tabs)
//   - render context assembly around the parsed document tree
//   - template execution with html/template
//
// Parsing itself lives behind the root package's Parser interface, and
// template lookup lives in internal/assets. ResolveAssetRefs prepares a
// rendered page for PDF export by pointing relative references at the
// source directory.
package pipeline

// Package blueprint parses API Blueprint documents into a tree templates can
// walk.
//
// The parser is line oriented and covers the parts of the format a
// documentation page needs: metadata, the API name and description, resource
// groups, resources, actions, URI parameters, and request and response
// payloads with their headers, body and schema. Markdown in descriptions is
// kept verbatim for the template to render.
//
// Problems that do not prevent building a tree are reported as warnings with
// byte offsets into the parsed source. Only an unsupported FORMAT metadata
// value fails the parse.
package blueprint

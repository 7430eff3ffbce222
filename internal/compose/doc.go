// Package compose validates module arrays and renders them to preview text.
//
// Validation happens in two passes. DecodeModules checks the raw JSON shape
// against a schema at the boundary and yields typed models.Modules;
// Validate then checks typed modules against structural rules and the
// workspace catalog. Render only ever sees modules that passed both.
package compose

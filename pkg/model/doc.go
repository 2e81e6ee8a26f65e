// Package model defines the declarative field schema consumed by the form
// engine and the immutable value store it edits. A Schema is an ordered list
// of Field entries; a Store always holds exactly the key set of its Schema and
// is replaced wholesale on every write, so readers holding an older Store never
// observe a partial update. Field kinds form a closed set (text, select,
// multilineText); unrecognised tags resolve to the text kind instead of
// failing, which keeps older schema files renderable.
package model

// Package content loads story documents into the narrative store.
//
// A story document is a YAML file holding one story with its pages in order.
// Documents are checked against an embedded JSON Schema before they are
// mapped to narrative types, so authoring mistakes surface with a path into
// the document rather than as a storage error.
package content

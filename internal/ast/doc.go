// Package ast models the pandoc JSON document tree.
//
// Elements the filter inspects (Str, Math, Cite, Link, Para, Header, ...)
// have their own types; every other element decodes to GenericInline or
// GenericBlock, whose content is kept verbatim and still reachable by Walk.
// Decoding rejects documents that are not pandoc JSON objects; encoding
// produces JSON pandoc reads back.
package ast

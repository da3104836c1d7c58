// Package pipeline implements the passes that number equations and
// resolve references in a pandoc document.
//
// The passes run in a fixed order over one traversal State:
//   - Number attaches attribute blocks to math, assigns numbers or tags
//     and rewrites each equation for the output format
//   - Repair rejoins references cut apart by auto-linking; a second run
//     leaves its output unchanged
//   - Resolve drops the braces around resolvable references and replaces
//     them with rendered numbers, names or cross-reference commands
//   - AddHeaders appends the preamble blocks the output needs
//
// Number fills the target table and freezes it; Repair and Resolve refuse
// to run before that, since a reference may point forward in the document.
package pipeline

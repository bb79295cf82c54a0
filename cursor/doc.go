// Package cursor defines the capability interface the path extractor uses to
// walk a tree-structured document in a single forward pass.
//
// A Cursor starts positioned before the first value of its current level.
// Next moves to the following sibling, StepIn enters the container the
// cursor is on (positioning before its first child) and StepOut leaves the
// enclosing container (positioning after it, so that Next moves to the
// container's next sibling). StepIn and StepOut are exact inverses.
//
// Implementations in this module:
//   - cursor/tree: in-memory annotated node trees
//   - cursor/jsoncursor: forward-only JSON token streams
//   - cursor/yamlcursor: YAML documents, tags exposed as annotations
package cursor

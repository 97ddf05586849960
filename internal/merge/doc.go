// Package merge reconciles several plugin contributions to one output file.
//
// A merge group is every contribution that targets the same path. Merge sorts
// the group by priority (stable, so equal priorities keep emission order) and
// folds it left to right: each contribution's strategy combines its content
// with everything accumulated so far.
//
// # Strategies
//
//   - replace: last writer wins
//   - json-merge: shallow key union, later keys win
//   - json-merge-deep: recursive union, arrays concatenate, later scalars win
//   - append / prepend: concatenation joined by a single newline
//   - insert-after / insert-before: splice next to the first marker match
//   - section-merge: replace or add a named, comment-delimited block
//   - line-merge: union of lines in first-seen order
//   - ast-transform: forwarded to a Transformer
//
// The package performs no I/O. Decisions that depend on the filesystem, such
// as skipping contributions for files that already exist, belong to the
// caller.
package merge

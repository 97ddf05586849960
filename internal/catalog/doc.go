// Package catalog holds the static table of plugin definitions.
//
// A Catalog is built once at startup and is read-only afterwards. Insertion
// order is significant: the resolver uses a plugin's catalog index as the
// final tie-break when ordering plugins with equal priority.
//
//	cat := catalog.Default()
//	def, ok := cat.Get("nextjs")
//
// User supplied definitions can be layered on top of the built-in table:
//
//	defs, err := catalog.Parse(data)
//	extended, err := cat.Extend(defs...)
package catalog

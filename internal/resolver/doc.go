// Package resolver turns a requested plugin set into an ordered execution plan.
//
// Resolution is a pure function of the catalog and the requested IDs: it
// expands auto-enabled plugins, rejects conflicting combinations, records
// dependencies that could not be satisfied, and orders the result so every
// plugin runs after the plugins it depends on.
//
// Among plugins that are ready at the same time, the one with the lowest
// declared priority runs first; equal priorities fall back to catalog order.
// The same catalog and the same requested set always produce the same plan.
package resolver

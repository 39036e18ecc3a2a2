// Package derivation turns production records plus notification settings into
// threshold notifications, financial-loss figures, alert text and dashboard KPIs.
//
// Every function is pure: no I/O, no package-level mutable state, and identical
// inputs always produce identical outputs, so callers may invoke them concurrently
// (for example from the sync job and from an HTTP request at the same time).
// Settings are always passed in explicitly.
package derivation

// Package catalog holds the static error catalog: the append-only table of
// stable error codes shared by the structural validator and the semantic
// rule engine. Every code a validation result can carry exists here, keyed
// by a stable string code whose numeric part falls inside a reserved band
// for its concern. Tooling depends on codes never changing meaning.
package catalog

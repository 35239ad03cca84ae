// Package manifest defines the agent manifest data model and its loader.
// A manifest is an externally supplied, immutable document under the
// apiVersion/kind/metadata/spec envelope; this package parses raw YAML or
// JSON into typed values and hands them to the validation and matching
// engines. It owns no validation logic itself.
package manifest

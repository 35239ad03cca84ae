package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parse unmarshals raw YAML (or JSON, which is a YAML subset) into a
// Manifest. The generic document tree is captured alongside the typed
// fields so structural validation sees the document exactly as authored.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing manifest document tree: %w", err)
	}
	m.raw = normalizeYAML(raw)

	return &m, nil
}

// ParseFile reads a manifest file and parses it.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return m, nil
}

// JSONValue returns the manifest as a generic JSON-compatible tree for
// schema validation. For parsed manifests this is the document as authored;
// for manifests constructed in Go it falls back to a marshal round-trip of
// the typed fields.
func (m *Manifest) JSONValue() (interface{}, error) {
	if m.raw != nil {
		return m.raw, nil
	}

	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("converting manifest to JSON: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("rebuilding manifest document tree: %w", err)
	}
	return v, nil
}

// normalizeYAML recursively converts YAML-decoded values to JSON-compatible
// types. YAML v3 produces map[string]interface{} but also int/int64 that
// JSON Schema validators may not handle consistently.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	default:
		return val
	}
}

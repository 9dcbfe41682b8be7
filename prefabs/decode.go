package prefabs

import "gopkg.in/yaml.v3"

// DecodeComponentSpec converts a loosely typed value (a map from a script or
// a generic YAML node) into a typed spec by round-tripping through YAML.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

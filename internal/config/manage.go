package config

// KeyInfo describes a config key for display purposes.
type KeyInfo struct {
	Key     string `json:"key" yaml:"key"`
	Type    string `json:"type" yaml:"type"`
	Value   string `json:"value" yaml:"value"`
	Default string `json:"default" yaml:"default"`
}

// ShowAll returns one KeyInfo per schema key, in schema order. Keys absent
// from values show their default.
func ShowAll(schema *Schema, values map[string]Value) []KeyInfo {
	result := make([]KeyInfo, 0, schema.Len())
	for _, e := range schema.entries {
		v, ok := values[e.Key]
		if !ok {
			v = e.Default
		}
		result = append(result, KeyInfo{
			Key:     e.Key,
			Type:    e.Kind().String(),
			Value:   v.String(),
			Default: e.Default.String(),
		})
	}
	return result
}

// ValidKeys returns the list of schema keys.
func ValidKeys(schema *Schema) []string {
	return schema.Keys()
}

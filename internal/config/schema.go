package config

// JSONSchema returns a minimal JSON Schema document describing the shape
// Load parses, for the -j/--json-schema CLI flag. It is a hand-maintained
// mirror of the Config/HTTPProber/NotifyConfig/SettingsConfig field
// layout, not a reflection-derived schema.
func JSONSchema() map[string]any {
	retrySchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"times":    map[string]any{"type": "integer"},
			"interval": map[string]any{"type": "string"},
		},
	}
	alertSchema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strategy":  map[string]any{"type": "string", "enum": []string{"regular", "increment", "exponential"}},
			"factor":    map[string]any{"type": "integer"},
			"max_times": map[string]any{"type": "integer"},
		},
	}

	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"title":   "probe configuration document",
		"type":    "object",
		"properties": map[string]any{
			"version": map[string]any{"type": "string"},
			"http": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"required": []string{"name", "url"},
					"properties": map[string]any{
						"name":         map[string]any{"type": "string"},
						"url":          map[string]any{"type": "string"},
						"method":       map[string]any{"type": "string"},
						"content_type": map[string]any{"type": "string"},
						"body":         map[string]any{"type": "string"},
						"headers":      map[string]any{"type": "object"},
						"success_code": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"proxy":        map[string]any{"type": "string"},
						"channels":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"interval":     map[string]any{"type": "string"},
						"timeout":      map[string]any{"type": "string"},
						"failure":      map[string]any{"type": "integer"},
						"success":      map[string]any{"type": "integer"},
						"alert":        alertSchema,
						"tls": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"ca_file":              map[string]any{"type": "string"},
								"insecure_skip_verify": map[string]any{"type": "boolean"},
							},
						},
						"breaker": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"max_failures": map[string]any{"type": "integer"},
								"timeout":      map[string]any{"type": "string"},
							},
						},
					},
				},
			},
			"notify": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"log": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"name", "file"},
							"properties": map[string]any{
								"name":     map[string]any{"type": "string"},
								"file":     map[string]any{"type": "string"},
								"format":   map[string]any{"type": "string"},
								"channels": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"timeout":  map[string]any{"type": "string"},
								"retry":    retrySchema,
								"dry":      map[string]any{"type": "boolean"},
							},
						},
					},
					"webhook": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":     "object",
							"required": []string{"name", "url"},
							"properties": map[string]any{
								"name":     map[string]any{"type": "string"},
								"url":      map[string]any{"type": "string"},
								"channels": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
								"timeout":  map[string]any{"type": "string"},
								"retry":    retrySchema,
								"dry":      map[string]any{"type": "boolean"},
							},
						},
					},
				},
			},
			"settings": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":       map[string]any{"type": "string"},
					"icon":       map[string]any{"type": "string"},
					"pid":        map[string]any{"type": "string"},
					"timeformat": map[string]any{"type": "string"},
					"timezone":   map[string]any{"type": "string"},
					"probe": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"interval": map[string]any{"type": "string"},
							"timeout":  map[string]any{"type": "string"},
							"failure":  map[string]any{"type": "integer"},
							"success":  map[string]any{"type": "integer"},
							"alert":    alertSchema,
						},
					},
					"notify": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"time_format": map[string]any{"type": "string"},
							"timeout":     map[string]any{"type": "string"},
							"retry":       retrySchema,
						},
					},
					"sla": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"schedule":  map[string]any{"type": "string"},
							"time":      map[string]any{"type": "string"},
							"data_file": map[string]any{"type": "string"},
							"backups":   map[string]any{"type": "integer"},
							"channels":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
					"http": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"ip":      map[string]any{"type": "string"},
							"port":    map[string]any{"type": "string"},
							"refresh": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}

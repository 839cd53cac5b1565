package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"
)

// Field is one editable entry of a section's content map as shown in the
// editor inspector.
type Field struct {
	Key   string
	Value string
	Kind  string // "text", "textarea" or "json"
}

// longTextKeys are content keys edited in a textarea.
var longTextKeys = map[string]bool{
	"description": true,
	"text":        true,
	"bio":         true,
}

// ContentFields flattens a content map into sorted inspector fields.
// Strings become text inputs, everything else is edited as JSON.
func ContentFields(content map[string]any) []Field {
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]Field, 0, len(keys))
	for _, k := range keys {
		switch v := content[k].(type) {
		case string:
			kind := "text"
			if longTextKeys[k] || len(v) > 80 || strings.Contains(v, "\n") {
				kind = "textarea"
			}
			fields = append(fields, Field{Key: k, Value: v, Kind: kind})
		case nil:
			fields = append(fields, Field{Key: k, Kind: "text"})
		default:
			raw, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				raw = []byte("null")
			}
			fields = append(fields, Field{Key: k, Value: string(raw), Kind: "json"})
		}
	}
	return fields
}

func funcMap(devMode bool) template.FuncMap {
	return template.FuncMap{
		// deref safely dereferences a string pointer for use in templates.
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"isDev": func() bool {
			return devMode
		},
		"contentFields": ContentFields,
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"join": strings.Join,
		"hasTag": func(tags []string, tag string) bool {
			for _, t := range tags {
				if t == tag {
					return true
				}
			}
			return false
		},
		// dict builds a map from alternating keys and values so partials
		// can receive more than one argument.
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			m := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				k, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				m[k] = pairs[i+1]
			}
			return m, nil
		},
	}
}

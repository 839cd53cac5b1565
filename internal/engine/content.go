package engine

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Section content is free-form JSON edited by users, so every accessor
// here tolerates missing keys and wrong types by returning a zero value.

func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case json.Number:
			return v.String()
		case bool:
			return strconv.FormatBool(v)
		}
	}
	return ""
}

func num(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "%"), 64)
		return f, err == nil
	}
	return 0, false
}

func list(m map[string]any, key string) []any {
	switch v := m[key].(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, o := range v {
			out[i] = o
		}
		return out
	}
	return nil
}

// strList collects the string items of a list, skipping anything else.
func strList(m map[string]any, key string) []string {
	var out []string
	for _, v := range list(m, key) {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

// objects collects list items that are objects. Bare strings are wrapped
// under fallbackKey so a list of plain URLs or names still renders.
func objects(m map[string]any, key, fallbackKey string) []map[string]any {
	var out []map[string]any
	for _, v := range list(m, key) {
		switch x := v.(type) {
		case map[string]any:
			out = append(out, x)
		case string:
			if fallbackKey != "" && strings.TrimSpace(x) != "" {
				out = append(out, map[string]any{fallbackKey: x})
			}
		}
	}
	return out
}

package theme

// Preset is a named palette offered in the theme editor.
type Preset struct {
	Key    string
	Name   string
	Colors Colors
}

// Presets are the palettes offered by the theme editor. Text is shared
// across presets except where the background needs more contrast.
var Presets = []Preset{
	{Key: "modern", Name: "Modern", Colors: Colors{
		Primary: "#2563eb", Secondary: "#64748b", Accent: "#f59e0b", Background: "#ffffff", Text: "#1e293b",
	}},
	{Key: "natural", Name: "Natural", Colors: Colors{
		Primary: "#059669", Secondary: "#374151", Accent: "#f97316", Background: "#f8fafc", Text: "#1f2937",
	}},
	{Key: "violet", Name: "Violet", Colors: Colors{
		Primary: "#7c3aed", Secondary: "#6b7280", Accent: "#ec4899", Background: "#fefefe", Text: "#1e1b4b",
	}},
	{Key: "monochrome", Name: "Monochrome", Colors: Colors{
		Primary: "#1f2937", Secondary: "#6b7280", Accent: "#9ca3af", Background: "#ffffff", Text: "#111827",
	}},
}

// FindPreset looks up a preset by key.
func FindPreset(key string) (Preset, bool) {
	for _, p := range Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

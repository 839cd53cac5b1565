package theme

// Typography controls fonts and sizes across a portfolio.
type Typography struct {
	HeadingFont   string  `json:"headingFont"`
	BodyFont      string  `json:"bodyFont"`
	H1Size        int     `json:"h1Size"`
	H2Size        int     `json:"h2Size"`
	BodySize      int     `json:"bodySize"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

// Fonts is the set of Google Fonts the editor offers.
var Fonts = []string{
	"Inter", "Poppins", "Roboto", "Open Sans", "Lato", "Montserrat",
	"Source Sans Pro", "Raleway", "Nunito", "Playfair Display",
	"Merriweather", "Crimson Text",
}

// DefaultTypography is applied when a theme carries no typography block.
var DefaultTypography = Typography{
	HeadingFont:   "Inter",
	BodyFont:      "Inter",
	H1Size:        32,
	H2Size:        24,
	BodySize:      16,
	LineHeight:    1.5,
	LetterSpacing: 0,
}

// Slider bounds used by the typography controls.
const (
	minH1, maxH1         = 24, 72
	minH2, maxH2         = 18, 48
	minBody, maxBody     = 12, 24
	minLine, maxLine     = 1.0, 2.5
	minLetter, maxLetter = -2.0, 5.0
)

func knownFont(f string) bool {
	for _, k := range Fonts {
		if k == f {
			return true
		}
	}
	return false
}

func clampInt(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// Normalize replaces unknown fonts with the default and clamps sizes to
// the slider ranges. Zero sizes mean "unset" and take the default.
func (t Typography) Normalize() Typography {
	out := t
	if !knownFont(out.HeadingFont) {
		out.HeadingFont = DefaultTypography.HeadingFont
	}
	if !knownFont(out.BodyFont) {
		out.BodyFont = DefaultTypography.BodyFont
	}
	out.H1Size = clampInt(out.H1Size, minH1, maxH1, DefaultTypography.H1Size)
	out.H2Size = clampInt(out.H2Size, minH2, maxH2, DefaultTypography.H2Size)
	out.BodySize = clampInt(out.BodySize, minBody, maxBody, DefaultTypography.BodySize)
	if out.LineHeight == 0 {
		out.LineHeight = DefaultTypography.LineHeight
	}
	out.LineHeight = clampFloat(out.LineHeight, minLine, maxLine)
	out.LetterSpacing = clampFloat(out.LetterSpacing, minLetter, maxLetter)
	return out
}

package section

// Patch is a partial update to a section. Nil fields are left alone. The
// type is not patchable.
type Patch struct {
	Title *string
	// Content keys are shallow-merged; a nil value removes the key.
	Content map[string]any
	Styles  *StylesPatch
}

// StylesPatch updates individual style fields. An empty string clears the
// override so the theme value applies again.
type StylesPatch struct {
	BackgroundColor *string
	TextColor       *string
	Padding         *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && len(p.Content) == 0 && p.Styles == nil
}

// Apply merges p into s.
func (s *Section) Apply(p Patch) {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if len(p.Content) > 0 {
		if s.Content == nil {
			s.Content = make(map[string]any, len(p.Content))
		}
		for k, v := range p.Content {
			if v == nil {
				delete(s.Content, k)
				continue
			}
			s.Content[k] = cloneValue(v)
		}
	}
	if p.Styles != nil {
		if s.Styles == nil {
			s.Styles = &Styles{}
		}
		if p.Styles.BackgroundColor != nil {
			s.Styles.BackgroundColor = *p.Styles.BackgroundColor
		}
		if p.Styles.TextColor != nil {
			s.Styles.TextColor = *p.Styles.TextColor
		}
		if p.Styles.Padding != nil {
			s.Styles.Padding = *p.Styles.Padding
		}
	}
}

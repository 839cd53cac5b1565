package engine

import (
	"fmt"
	"html/template"
	"math"

	"folio/internal/markdown"
	"folio/internal/section"
	"folio/internal/theme"
)

// view is what a section template sees. Everything user supplied has been
// pulled out of the loose content map into typed fields by buildView.
type view struct {
	ID     string
	Type   string
	Kind   string // template to execute; "fallback" for unknown types
	Title  string
	Style  template.CSS // wrapper background, color and padding
	Accent template.CSS // background in the accent color
	Button template.CSS // primary call to action
	Head   template.CSS // heading color
	Body   any
}

type heroView struct {
	Subtitle, Description, ButtonText, BackgroundImage string
}

type aboutView struct {
	Text       template.HTML
	Image      string
	Highlights []string
}

type skillView struct {
	Name  string
	Level int
	Bar   template.CSS
}

type projectView struct {
	Title       string
	Description template.HTML
	Image       string
	URL         string
	Tags        []string
}

type contactView struct {
	Email, Phone, Location string
	Socials                []linkView
}

type linkView struct {
	Label, URL string
}

type imageView struct {
	URL, Caption string
}

type testimonialView struct {
	Quote, Author, Role string
}

type experienceView struct {
	Role, Company, Period string
	Description           template.HTML
}

type fallbackView struct {
	Placeholder string
}

// buildView extracts a typed view from a section. It reads from the
// section without modifying it.
func buildView(s section.Section, th theme.Theme) view {
	c := s.Content
	if c == nil {
		c = map[string]any{}
	}

	bg, fg, pad := th.Background, th.Text, section.DefaultPadding
	if s.Styles != nil {
		if s.Styles.BackgroundColor != "" {
			bg = s.Styles.BackgroundColor
		}
		if s.Styles.TextColor != "" {
			fg = s.Styles.TextColor
		}
		if s.Styles.Padding != "" {
			pad = s.Styles.Padding
		}
	}

	v := view{
		ID:     s.ID,
		Type:   string(s.Type),
		Kind:   string(s.Type),
		Title:  str(c, "title"),
		Style:  declarations("background-color", bg, "color", fg, "padding", pad),
		Accent: declarations("background-color", th.Accent),
		Button: declarations("background-color", th.Primary, "color", "#ffffff"),
		Head:   declarations("color", th.Primary),
	}
	if v.Title == "" {
		v.Title = s.Title
	}

	switch s.Type {
	case section.TypeHero:
		v.Body = heroView{
			Subtitle:        str(c, "subtitle"),
			Description:     str(c, "description"),
			ButtonText:      str(c, "buttonText"),
			BackgroundImage: str(c, "backgroundImage"),
		}
	case section.TypeAbout:
		v.Body = aboutView{
			Text:       richText(str(c, "text")),
			Image:      str(c, "image"),
			Highlights: strList(c, "highlights"),
		}
	case section.TypeSkills:
		var skills []skillView
		for _, o := range objects(c, "skills", "name") {
			name := str(o, "name")
			if name == "" {
				continue
			}
			level := 0
			if f, ok := num(o, "level"); ok && !math.IsNaN(f) {
				level = int(math.Round(math.Min(math.Max(f, 0), 100)))
			}
			skills = append(skills, skillView{
				Name:  name,
				Level: level,
				Bar:   declarations("width", fmt.Sprintf("%d%%", level), "background-color", th.Accent),
			})
		}
		v.Body = skills
	case section.TypeProjects:
		var projects []projectView
		for _, o := range objects(c, "projects", "title") {
			projects = append(projects, projectView{
				Title:       str(o, "title", "name"),
				Description: richText(str(o, "description")),
				Image:       str(o, "image", "imageUrl"),
				URL:         str(o, "url", "link"),
				Tags:        strList(o, "tags"),
			})
		}
		v.Body = projects
	case section.TypeContact:
		var socials []linkView
		for _, o := range objects(c, "socials", "url") {
			url := str(o, "url", "link")
			if url == "" {
				continue
			}
			label := str(o, "platform", "name", "label")
			if label == "" {
				label = url
			}
			socials = append(socials, linkView{Label: label, URL: url})
		}
		v.Body = contactView{
			Email:    str(c, "email"),
			Phone:    str(c, "phone"),
			Location: str(c, "location"),
			Socials:  socials,
		}
	case section.TypeGallery:
		var images []imageView
		for _, o := range objects(c, "images", "url") {
			url := str(o, "url", "src")
			if url == "" {
				continue
			}
			images = append(images, imageView{URL: url, Caption: str(o, "caption", "alt")})
		}
		v.Body = images
	case section.TypeTestimonials:
		var items []testimonialView
		for _, o := range objects(c, "testimonials", "quote") {
			quote := str(o, "quote", "text")
			if quote == "" {
				continue
			}
			items = append(items, testimonialView{
				Quote:  quote,
				Author: str(o, "author", "name"),
				Role:   str(o, "role", "company"),
			})
		}
		v.Body = items
	case section.TypeExperience:
		var entries []experienceView
		for _, o := range objects(c, "entries", "role") {
			entries = append(entries, experienceView{
				Role:        str(o, "role", "title"),
				Company:     str(o, "company"),
				Period:      str(o, "period", "dates"),
				Description: richText(str(o, "description")),
			})
		}
		v.Body = entries
	default:
		v.Kind = "fallback"
		v.Title = s.Title
		v.Body = fallbackView{
			Placeholder: fmt.Sprintf("Section %s - click to customize", s.Type),
		}
	}
	return v
}

func richText(s string) template.HTML {
	if s == "" {
		return ""
	}
	return template.HTML(markdown.ToHTMLOrEscaped(s))
}

package handlers

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for portfolio and profile fields.
const (
	maxNameLen        = 120
	maxDescriptionLen = 500
	maxDisplayNameLen = 80
	maxBioLen         = 500
	maxTags           = 10
	maxTagLen         = 32
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt ignores anything longer
)

// validatePortfolio checks the name and description of a portfolio and
// returns the first error found.
func validatePortfolio(name, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "Name is too long (max 120 characters)."
	}
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return "Description is too long (max 500 characters)."
	}
	return ""
}

// parseTags splits a comma separated tag list. Tags are lower-cased,
// trimmed and de-duplicated, keeping the order they were typed in.
func parseTags(raw string) ([]string, string) {
	tags := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" || seen[tag] {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return nil, "Tags are limited to 32 characters each."
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return nil, "At most 10 tags are allowed."
	}
	return tags, ""
}

// validateSignup checks the sign-up form.
func validateSignup(email, password, displayName string) string {
	if a, err := mail.ParseAddress(email); err != nil || a.Address != email {
		return "Please enter a valid email address."
	}
	if n := len(password); n < minPasswordLen {
		return "Password must be at least 8 characters."
	} else if n > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Name is too long (max 80 characters)."
	}
	return ""
}

// validateProfile checks the profile settings form.
func validateProfile(displayName, bio string) string {
	if utf8.RuneCountInString(displayName) > maxDisplayNameLen {
		return "Name is too long (max 80 characters)."
	}
	if utf8.RuneCountInString(bio) > maxBioLen {
		return "Bio is too long (max 500 characters)."
	}
	return ""
}

// optional returns nil for blank input.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// internal/models/preference.go
package models

import (
	"strings"
	"unicode/utf8"
)

// maxKeywords caps the keyword list carried into a search dispatch.
const maxKeywords = 20

// UserPreference is one user's stored search profile. Records are written
// wholesale by the preference intake; this service only reads them, and the
// reconciler may delete them.
type UserPreference struct {
	UserID             string
	Email              string
	Role               string
	SearchType         string
	Keywords           []string
	CompanyDescription string
	ScheduleRaw        string
}

// NormalizeKeywords turns the stored free-form keyword string into the
// bounded list the search worker accepts. Semicolons and pipes act as
// alternate separators; tokens of a single character are intake-form noise
// and are dropped.
func NormalizeKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	cleaned := strings.NewReplacer(";", ",", "|", ",").Replace(raw)
	parts := strings.Split(cleaned, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) <= 1 {
			continue
		}
		keywords = append(keywords, part)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

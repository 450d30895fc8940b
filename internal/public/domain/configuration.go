package domain

import "strings"

// Settings is the business configuration as stored, with optional flags.
type Settings struct {
	AutoRedirectToGoogle *bool
	ShowGooglePrompt     *bool
	ExternalReviewLink   string
}

// Configuration is the resolved per-session view of Settings.
type Configuration struct {
	AutoRedirect bool
	ShowPrompt   bool
	ReviewLink   string
}

// Resolve turns stored settings into concrete values. Absent flags default to true.
func (s Settings) Resolve() Configuration {
	return Configuration{
		AutoRedirect: boolOrTrue(s.AutoRedirectToGoogle),
		ShowPrompt:   boolOrTrue(s.ShowGooglePrompt),
		ReviewLink:   strings.TrimSpace(s.ExternalReviewLink),
	}
}

// HasReviewLink reports whether redirects are possible at all.
func (c Configuration) HasReviewLink() bool {
	return c.ReviewLink != ""
}

func boolOrTrue(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}

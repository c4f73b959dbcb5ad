package setting

import (
	"strings"
	"time"
)

const (
	KeySiteTitle       = "site_title"
	KeySiteDescription = "site_description"
	KeyContactEmail    = "contact_email"
	socialKeyPrefix    = "social_"
)

type Setting struct {
	Key       string
	Value     string
	UpdatedBy string
	UpdatedAt time.Time
}

// IsPublic reports whether key may be served to anonymous visitors.
func IsPublic(key string) bool {
	switch key {
	case KeySiteTitle, KeySiteDescription, KeyContactEmail:
		return true
	}
	return strings.HasPrefix(key, socialKeyPrefix)
}

// PublicOnly filters settings down to the anonymous subset.
func PublicOnly(settings []*Setting) []*Setting {
	out := make([]*Setting, 0, len(settings))
	for _, s := range settings {
		if IsPublic(s.Key) {
			out = append(out, s)
		}
	}
	return out
}

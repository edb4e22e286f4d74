package lint

import (
	"fmt"
	"strings"
)

// Profile is a named rule-strictness preset of the external lint tool.
type Profile string

const (
	ProfileBasic      Profile = "basic"
	ProfileProduction Profile = "production"
	ProfileSafe       Profile = "safe"
	ProfileTest       Profile = "test"
	ProfileMinimal    Profile = "minimal"
)

// profileOrder fixes the order profiles are listed in.
var profileOrder = []Profile{
	ProfileBasic,
	ProfileProduction,
	ProfileSafe,
	ProfileTest,
	ProfileMinimal,
}

// profileDescriptions gives a one-line summary per profile for clients that
// pick a profile interactively.
var profileDescriptions = map[Profile]string{
	ProfileBasic:      "Basic rule set for general use",
	ProfileProduction: "Strict rules for production environments",
	ProfileSafe:       "Conservative rules that avoid false positives",
	ProfileTest:       "Rules optimized for test playbooks",
	ProfileMinimal:    "Minimal rule set for quick checks",
}

// SupportedProfiles returns the fixed profile set in listing order.
func SupportedProfiles() []string {
	names := make([]string, 0, len(profileOrder))
	for _, p := range profileOrder {
		names = append(names, string(p))
	}
	return names
}

// ProfileDescriptions returns the profile summaries keyed by name.
func ProfileDescriptions() map[string]string {
	out := make(map[string]string, len(profileDescriptions))
	for p, desc := range profileDescriptions {
		out[string(p)] = desc
	}
	return out
}

// IsSupportedProfile reports whether name is a member of the fixed set.
func IsSupportedProfile(name string) bool {
	_, ok := profileDescriptions[Profile(name)]
	return ok
}

// ParseProfile strictly resolves name against the fixed set. Used by
// entry points that reject unknown profiles instead of coercing them.
func ParseProfile(name string) (Profile, error) {
	if IsSupportedProfile(name) {
		return Profile(name), nil
	}
	return "", fmt.Errorf("unsupported profile %q, supported: %s",
		name, strings.Join(SupportedProfiles(), ", "))
}

// SanitizeProfile trims and lower-cases raw and coerces it to fallback when
// it is not a member of the fixed set. An unrecognized profile name is a
// minor usage mistake: it is tolerated with a warning, unlike malformed
// payloads which are rejected outright.
func SanitizeProfile(raw string, fallback Profile, logger Logger) Profile {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if IsSupportedProfile(cleaned) {
		return Profile(cleaned)
	}
	if logger != nil {
		logger.WarnTag("LINT", "invalid profile %q, using %q", raw, string(fallback))
	}
	return fallback
}

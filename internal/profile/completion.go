// File: internal/profile/completion.go
package profile

import "strings"

// FounderComplete reports whether every field a founder needs before being
// discoverable is filled: experience, bio, at least one skill and linkedin.
func FounderComplete(p *FounderProfile) bool {
	return filled(p.Experience) &&
		filled(p.Bio) &&
		len(p.Skills) > 0 &&
		filled(p.LinkedIn)
}

// MemberComplete reports whether a member has currentRole, yearsExperience
// (zero counts), at least one skill and a bio.
func MemberComplete(p *MemberProfile) bool {
	return filled(p.CurrentRole) &&
		p.YearsExperience != nil &&
		len(p.Skills) > 0 &&
		filled(p.Bio)
}

func filled(s string) bool {
	return strings.TrimSpace(s) != ""
}

// normalizeSkills trims entries and drops blanks and case-insensitive duplicates.
func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

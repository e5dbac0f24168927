// File: internal/domain/types.go

// Package domain holds the closed vocabularies shared by several feature packages.
package domain

// UserRole is the immutable role tag chosen when a user is created.
type UserRole string

const (
	RoleFounder UserRole = "founder"
	RoleMember  UserRole = "member"
)

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal    AuthProvider = "local"
	ProviderGoogle   AuthProvider = "google"
	ProviderLinkedIn AuthProvider = "linkedin"
)

var Industries = []string{
	"SaaS", "AI/ML", "Fintech", "EdTech", "HealthTech", "E-commerce", "Gaming",
	"Blockchain", "IoT", "Cybersecurity", "Marketing", "Social Media", "Real Estate",
	"Travel", "Food & Beverage", "Enterprise", "Developer Tools", "Other",
}

var Stages = []string{"Idea Phase", "MVP/Pre-seed", "Seed", "Series A+", "Growth Stage"}

var TeamSizes = []string{"1-5", "6-10", "11-20", "21-50", "51-100", "100+"}

var ExperienceLevels = []string{
	"Fresher (0-1 Years)", "Junior (1-2 Years)", "Mid-Level (3-5 Years)",
	"Senior (5+ Years)", "Lead/Principal (8+ Years)", "Any",
}

var EmploymentTypes = []string{"Full-Time", "Part-Time", "Remote", "Contract", "Internship"}

// Contains reports whether value is one of allowed.
func Contains(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

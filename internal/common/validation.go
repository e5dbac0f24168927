// File: internal/common/validation.go
package common

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"startupteam_backend/internal/domain"
)

// Custom validation tags usable in binding struct tags.
const (
	TagIndustry        = "industry"
	TagStage           = "stage"
	TagTeamSize        = "teamsize"
	TagExperienceLevel = "experiencelevel"
	TagEmploymentType  = "employmenttype"
	TagLinkedInURL     = "linkedinurl"
	TagGitHubURL       = "githuburl"
	TagPhone           = "phone"
)

// RegisterValidators installs the custom tags on v. phoneRegion is the
// ISO-3166 region assumed for phone numbers written without a country code.
func RegisterValidators(v *validator.Validate, phoneRegion string) error {
	enums := map[string][]string{
		TagIndustry:        domain.Industries,
		TagStage:           domain.Stages,
		TagTeamSize:        domain.TeamSizes,
		TagExperienceLevel: domain.ExperienceLevels,
		TagEmploymentType:  domain.EmploymentTypes,
	}
	for tag, allowed := range enums {
		allowed := allowed
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return domain.Contains(allowed, fl.Field().String())
		}); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	hostContains := map[string]string{
		TagLinkedInURL: "linkedin.com",
		TagGitHubURL:   "github.com",
	}
	for tag, host := range hostContains {
		host := host
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return strings.Contains(strings.ToLower(fl.Field().String()), host)
		}); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}

	if err := v.RegisterValidation(TagPhone, func(fl validator.FieldLevel) bool {
		_, err := NormalizePhone(fl.Field().String(), phoneRegion)
		return err == nil
	}); err != nil {
		return fmt.Errorf("register %s validator: %w", TagPhone, err)
	}
	return nil
}

// NormalizePhone parses raw and formats it as E.164.
func NormalizePhone(raw, defaultRegion string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), strings.ToUpper(defaultRegion))
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("phone number %q is not valid", raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Package format maps scraped records and configured defaults into the
// destination payload. Build is a pure function: record values always win
// over defaults, and the required-property check here is the single
// correctness gate before the payload reaches the reviewer.
package format

import (
	"fmt"
	"strings"

	"github.com/jonathan/linktolead/internal/config"
	"github.com/jonathan/linktolead/internal/types"
)

// companyFieldMapping maps destination company properties to record fields.
var companyFieldMapping = map[string]string{
	"name":                  "company_name",
	"description":           "company_description",
	"website":               "company_website",
	"industry":              "company_industry",
	"numberofemployees":     "company_size",
	"city":                  "company_headquarters",
	"linkedin_company_page": "company_url",
}

// dealFieldMapping maps destination deal properties to record fields.
// dealname is deliberately absent: it is always derived from title and
// company by synthesizeDealName, never copied from a single field.
var dealFieldMapping = map[string]string{
	"description":      "job_description",
	"location":         "job_location",
	"employment_type":  "job_employment_type",
	"experience_level": "job_seniority",
	"date_posted":      "job_posted_date",
	"linkedin_job_url": "job_url",
}

// requiredCompanyProperties must be non-empty before publishing is attempted.
var requiredCompanyProperties = []string{"name"}

// requiredDealProperties must be non-empty before publishing is attempted.
var requiredDealProperties = []string{"dealname", "dealstage", "pipeline", "hubspot_owner_id"}

// ValidationError reports a required destination property that is still
// empty after records and defaults have been merged.
type ValidationError struct {
	Object   string // "company" or "deal"
	Property string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: required %s property %q is empty", e.Object, e.Property)
}

// Build merges the job and company records with the configured defaults into
// a destination payload. Record values are never overridden by defaults.
func Build(job *types.JobRecord, company *types.CompanyRecord, defaults config.Defaults) (*types.Payload, error) {
	payload := &types.Payload{
		Company: types.Properties{Properties: map[string]string{}},
		Deal:    types.Properties{Properties: map[string]string{}},
	}

	jobFields := job.Fields()
	companyFields := company.Fields()

	for property, field := range companyFieldMapping {
		if v := strings.TrimSpace(companyFields[field]); v != "" {
			payload.Company.Properties[property] = v
		}
	}
	for property, field := range dealFieldMapping {
		if v := strings.TrimSpace(jobFields[field]); v != "" {
			payload.Deal.Properties[property] = v
		}
	}

	// The deal name is derived from title and company before the defaults
	// are applied, so a configured default never shadows it.
	if name := synthesizeDealName(jobFields, companyFields); name != "" {
		payload.Deal.Properties["dealname"] = name
	}

	applyDefault(payload.Deal.Properties, "dealstage", defaults.DealStageID)
	applyDefault(payload.Deal.Properties, "pipeline", defaults.DealPipelineID)
	applyDefault(payload.Deal.Properties, "hubspot_owner_id", defaults.DealOwnerID)

	// Custom default_<prefix>_<property> keys route on their prefix.
	for key, value := range defaults.Extra {
		switch {
		case strings.HasPrefix(key, "company_"):
			applyDefault(payload.Company.Properties, strings.TrimPrefix(key, "company_"), value)
		case strings.HasPrefix(key, "deal_"):
			applyDefault(payload.Deal.Properties, strings.TrimPrefix(key, "deal_"), value)
		}
	}

	if err := Validate(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Validate checks that every required destination property is non-empty.
// The reviewer re-runs this after every successful edit so an edit that
// blanks a required field is caught before re-prompting, not at publish time.
func Validate(p *types.Payload) error {
	for _, property := range requiredCompanyProperties {
		if strings.TrimSpace(p.Company.Properties[property]) == "" {
			return &ValidationError{Object: "company", Property: property}
		}
	}
	for _, property := range requiredDealProperties {
		if strings.TrimSpace(p.Deal.Properties[property]) == "" {
			return &ValidationError{Object: "deal", Property: property}
		}
	}
	return nil
}

func applyDefault(props map[string]string, property, value string) {
	if props[property] == "" && value != "" {
		props[property] = value
	}
}

func synthesizeDealName(jobFields, companyFields map[string]string) string {
	title := strings.TrimSpace(jobFields["job_title"])
	company := strings.TrimSpace(companyFields["company_name"])
	if company == "" {
		company = strings.TrimSpace(jobFields["job_company"])
	}

	switch {
	case title != "" && company != "":
		return fmt.Sprintf("%s at %s", title, company)
	case title != "":
		return title
	case company != "":
		return fmt.Sprintf("Opportunity at %s", company)
	default:
		return ""
	}
}

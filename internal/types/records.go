// Package types provides type definitions for the records and payloads that
// flow through the linktolead pipeline.
package types

// JobRecord holds the fields extracted from a job posting page.
// Every field except URL is optional; an empty string means the
// corresponding selector rules did not match.
type JobRecord struct {
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	CompanyName    string `json:"company_name,omitempty" yaml:"company_name,omitempty"`
	Location       string `json:"location,omitempty" yaml:"location,omitempty"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	EmploymentType string `json:"employment_type,omitempty" yaml:"employment_type,omitempty"`
	PostedDate     string `json:"posted_date,omitempty" yaml:"posted_date,omitempty"`
	Seniority      string `json:"seniority,omitempty" yaml:"seniority,omitempty"`
	URL            string `json:"url" yaml:"url"`
}

// Fields returns the record as a flat field map. The key set is fixed for
// every JobRecord, which is what the enhancement invariant is checked against.
func (r *JobRecord) Fields() map[string]string {
	return map[string]string{
		"job_title":           r.Title,
		"job_company":         r.CompanyName,
		"job_location":        r.Location,
		"job_description":     r.Description,
		"job_employment_type": r.EmploymentType,
		"job_posted_date":     r.PostedDate,
		"job_seniority":       r.Seniority,
		"job_url":             r.URL,
	}
}

// CompanyRecord holds the fields extracted from a company about page.
// Every field except URL is optional.
type CompanyRecord struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Industry     string `json:"industry,omitempty" yaml:"industry,omitempty"`
	Size         string `json:"size,omitempty" yaml:"size,omitempty"`
	Website      string `json:"website,omitempty" yaml:"website,omitempty"`
	Headquarters string `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	URL          string `json:"url" yaml:"url"`
}

// Fields returns the record as a flat field map with a fixed key set.
func (r *CompanyRecord) Fields() map[string]string {
	return map[string]string{
		"company_name":         r.Name,
		"company_industry":     r.Industry,
		"company_size":         r.Size,
		"company_website":      r.Website,
		"company_headquarters": r.Headquarters,
		"company_description":  r.Description,
		"company_url":          r.URL,
	}
}

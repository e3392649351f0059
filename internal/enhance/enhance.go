// Package enhance applies optional LLM cleanup to scraped records.
//
// Enhancement is fail-soft throughout: any generation failure is logged and
// the original value is kept, because a raw record is still publishable while
// an aborted run is not. Enhancement only ever revises field values; it never
// adds or removes fields.
package enhance

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/linktolead/internal/llm"
	"github.com/jonathan/linktolead/internal/types"
)

const jobDescriptionPrompt = `Below is a job description scraped from a job posting page.
Clean it up: remove HTML artifacts and navigation debris, and organize it into
clear sections (responsibilities, requirements, benefits) where present.
Keep the original meaning intact. Return only the cleaned description.

Original job description:
%s`

const companyDescriptionPrompt = `Below is a company description scraped from a company page.
Clean it up: remove HTML artifacts and boilerplate, and produce a clear,
concise description. Keep the original meaning intact. Return only the
cleaned description.

Original company description:
%s`

const postedDatePrompt = `Normalize the following job posting date phrase to an absolute
ISO 8601 date (YYYY-MM-DD) if possible, otherwise return it unchanged.
Return only the date, no explanation.

Date phrase:
%s`

const companySizePrompt = `Normalize the following company size phrase to a plain numeric
range such as "51-200" or a single number, without the word "employees".
If it cannot be normalized, return it unchanged. Return only the result.

Size phrase:
%s`

// Error represents a failed enhancement of a single field. It is logged and
// swallowed, never propagated.
type Error struct {
	Field string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enhancement failed for %s: %v", e.Field, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Enhancer revises record fields through a text-generation client.
type Enhancer struct {
	client  llm.Client
	verbose bool
}

// New creates an Enhancer backed by the given client.
func New(client llm.Client, verbose bool) *Enhancer {
	return &Enhancer{client: client, verbose: verbose}
}

// EnhanceJob returns a revised copy of the job record. The returned record
// always has the same field set as the input; on any generation failure the
// affected field keeps its original value.
func (e *Enhancer) EnhanceJob(ctx context.Context, rec *types.JobRecord) *types.JobRecord {
	out := *rec
	out.Description = e.revise(ctx, "job_description", jobDescriptionPrompt, rec.Description)
	out.PostedDate = e.revise(ctx, "job_posted_date", postedDatePrompt, rec.PostedDate)
	return &out
}

// EnhanceCompany returns a revised copy of the company record, with the same
// fail-soft guarantees as EnhanceJob.
func (e *Enhancer) EnhanceCompany(ctx context.Context, rec *types.CompanyRecord) *types.CompanyRecord {
	out := *rec
	out.Description = e.revise(ctx, "company_description", companyDescriptionPrompt, rec.Description)
	out.Size = e.revise(ctx, "company_size", companySizePrompt, rec.Size)
	return &out
}

// revise sends one field through the client. Empty fields are skipped; a
// generation failure or empty response keeps the original value.
func (e *Enhancer) revise(ctx context.Context, field, promptTemplate, value string) string {
	if strings.TrimSpace(value) == "" {
		return value
	}

	result, err := e.client.GenerateContent(ctx, fmt.Sprintf(promptTemplate, value))
	if err != nil {
		log.Print(&Error{Field: field, Cause: err})
		return value
	}

	result = strings.TrimSpace(result)
	if result == "" {
		log.Print(&Error{Field: field, Cause: fmt.Errorf("empty response")})
		return value
	}

	if e.verbose {
		log.Printf("[VERBOSE] enhanced %s (%d -> %d chars)", field, len(value), len(result))
	}
	return result
}

// Package scrape extracts structured job and company records from rendered
// LinkedIn pages. It is deliberately lenient: a field its selectors cannot
// find stays empty and the run continues, because the payload is reviewed by
// a human before anything is published.
package scrape

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/linktolead/internal/types"
)

// expiredMarker appears in postings that stopped accepting applications.
const expiredMarker = "No longer accepting applications"

// wrongPageSelectors match LinkedIn's not-found and unavailable shell pages.
var wrongPageSelectors = []string{
	".not-found__main-headline",
	"section.error-404",
}

// wrongPageMarkers are shell-page phrases, with straight and typographic
// apostrophe variants as LinkedIn serves both.
var wrongPageMarkers = []string{
	"page not found",
	"this page doesn't exist",
	"this page doesn’t exist",
	"page isn't available",
	"page isn’t available",
}

// Renderer renders a URL in an authenticated browser session.
type Renderer interface {
	Rendered(ctx context.Context, url string) (string, error)
}

// LinkedIn extracts job postings and company profiles from LinkedIn pages.
// It implements the source platform interface.
type LinkedIn struct {
	renderer Renderer
	debug    bool
	runID    string
	verbose  bool
}

// NewLinkedIn creates a LinkedIn source. With debug enabled, every rendered
// page is dumped to an HTML file named after runID for selector debugging.
func NewLinkedIn(renderer Renderer, debug bool, runID string, verbose bool) *LinkedIn {
	return &LinkedIn{renderer: renderer, debug: debug, runID: runID, verbose: verbose}
}

// ExtractJob renders a job posting and extracts its fields.
func (l *LinkedIn) ExtractJob(ctx context.Context, jobURL string) (*types.JobRecord, error) {
	doc, err := l.render(ctx, jobURL, "job")
	if err != nil {
		return nil, err
	}

	if isErrorShell(doc) {
		return nil, &ExtractionError{Kind: KindWrongPage, URL: jobURL, Message: "page is a not-found shell, not a job posting"}
	}
	if strings.Contains(doc.Text(), expiredMarker) {
		return nil, &ExtractionError{Kind: KindExpired, URL: jobURL, Message: "job posting is no longer accepting applications"}
	}

	record := &types.JobRecord{
		Title:          firstText(doc, jobTitleSelectors),
		CompanyName:    firstText(doc, jobCompanySelectors),
		Location:       firstText(doc, jobLocationSelectors),
		Description:    blockText(doc, jobDescriptionSelectors),
		EmploymentType: criteriaByHeader(doc, "Employment type"),
		PostedDate:     firstText(doc, jobPostedDateSelectors),
		Seniority:      criteriaByHeader(doc, "Seniority level"),
		URL:            jobURL,
	}

	l.logMisses("job", record.Fields())
	return record, nil
}

// ExtractCompany renders a company's about page and extracts its fields. The
// given URL is normalized to the /about/ subpage, which carries the detail
// list the profile landing page lacks.
func (l *LinkedIn) ExtractCompany(ctx context.Context, companyURL string) (*types.CompanyRecord, error) {
	doc, err := l.render(ctx, aboutURL(companyURL), "company")
	if err != nil {
		return nil, err
	}

	if isErrorShell(doc) {
		return nil, &ExtractionError{Kind: KindWrongPage, URL: companyURL, Message: "page is a not-found shell, not a company profile"}
	}

	record := &types.CompanyRecord{
		Name:         firstText(doc, companyNameSelectors),
		Industry:     detailByLabel(doc, "Industry"),
		Size:         detailByLabel(doc, "Company size"),
		Website:      cleanWebsite(detailByLabel(doc, "Website")),
		Headquarters: detailByLabel(doc, "Headquarters"),
		Description:  blockText(doc, companyDescriptionSelectors),
		URL:          companyURL,
	}

	l.logMisses("company", record.Fields())
	return record, nil
}

func (l *LinkedIn) render(ctx context.Context, pageURL, kind string) (*goquery.Document, error) {
	html, err := l.renderer.Rendered(ctx, pageURL)
	if err != nil {
		return nil, &ExtractionError{Kind: KindPageLoad, URL: pageURL, Message: "failed to render page", Cause: err}
	}

	if l.debug {
		l.dumpDebugHTML(kind, html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{Kind: KindPageLoad, URL: pageURL, Message: "failed to parse page HTML", Cause: err}
	}
	return doc, nil
}

func (l *LinkedIn) dumpDebugHTML(kind, html string) {
	name := fmt.Sprintf("linktolead_debug_%s_%s.html", l.runID, kind)
	if err := os.WriteFile(name, []byte(html), 0o644); err != nil {
		log.Printf("warning: failed to write debug HTML %s: %v", name, err)
		return
	}
	log.Printf("[SCRAPE] wrote rendered page to %s", name)
}

func (l *LinkedIn) logMisses(kind string, fields map[string]string) {
	if !l.verbose {
		return
	}
	for key, value := range fields {
		if value == "" {
			log.Printf("[SCRAPE] %s field %s: no selector matched", kind, key)
		}
	}
}

// isErrorShell reports whether the rendered page is a not-found or
// unavailable shell rather than real content. Detection is page-level only;
// a selector miss on a content page never makes the page "wrong".
func isErrorShell(doc *goquery.Document) bool {
	for _, selector := range wrongPageSelectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	text := strings.ToLower(doc.Text())
	for _, marker := range wrongPageMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// aboutURL normalizes a company profile URL to its /about/ subpage.
func aboutURL(companyURL string) string {
	trimmed := strings.TrimRight(companyURL, "/")
	if strings.HasSuffix(trimmed, "/about") {
		return trimmed + "/"
	}
	return trimmed + "/about/"
}

// firstText returns the trimmed text of the first selector that matches a
// non-empty element.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := collapseSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// blockText is firstText for multi-paragraph fields: inner whitespace runs
// are preserved line by line instead of collapsed.
func blockText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		raw := doc.Find(selector).First().Text()
		lines := make([]string, 0, 8)
		for _, line := range strings.Split(raw, "\n") {
			if line = collapseSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			return strings.Join(lines, "\n")
		}
	}
	return ""
}

// detailByLabel finds a dt element with the given label and returns the text
// of its dd sibling. The company about page lays its details out this way.
func detailByLabel(doc *goquery.Document, label string) string {
	var value string
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !strings.EqualFold(collapseSpace(dt.Text()), label) {
			return true
		}
		value = collapseSpace(dt.NextFiltered("dd").First().Text())
		return false
	})
	return value
}

// criteriaByHeader reads the job criteria list (employment type, seniority)
// by its header text.
func criteriaByHeader(doc *goquery.Document, header string) string {
	var value string
	doc.Find(".description__job-criteria-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		subheader := collapseSpace(item.Find(".description__job-criteria-subheader").Text())
		if !strings.EqualFold(subheader, header) {
			return true
		}
		value = collapseSpace(item.Find(".description__job-criteria-text").Text())
		return false
	})
	return value
}

// cleanWebsite unwraps LinkedIn's redirect URLs so the payload carries the
// company's real website.
func cleanWebsite(website string) string {
	if !strings.Contains(website, "linkedin.com/redir/redirect") {
		return website
	}
	parsed, err := url.Parse(website)
	if err != nil {
		return website
	}
	if target := parsed.Query().Get("url"); target != "" {
		return target
	}
	return website
}

// collapseSpace trims and collapses internal whitespace runs to single
// spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

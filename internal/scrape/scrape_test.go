package scrape

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRenderer serves canned HTML keyed by URL.
type fakeRenderer struct {
	pages map[string]string
	err   error
	urls  []string
}

func (f *fakeRenderer) Rendered(_ context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return "", f.err
	}
	html, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("no fixture for %s", url)
	}
	return html, nil
}

const jobPageHTML = `<html><body>
  <h1 class="top-card-layout__title">Senior Go Engineer</h1>
  <a class="topcard__org-name-link">Acme Corp</a>
  <span class="topcard__flavor--bullet">Berlin, Germany</span>
  <span class="posted-time-ago__text">2 weeks ago</span>
  <div class="description__text">
    We build infrastructure.

    You will write Go services.
  </div>
  <ul>
    <li class="description__job-criteria-item">
      <h3 class="description__job-criteria-subheader">Seniority level</h3>
      <span class="description__job-criteria-text">Mid-Senior level</span>
    </li>
    <li class="description__job-criteria-item">
      <h3 class="description__job-criteria-subheader">Employment type</h3>
      <span class="description__job-criteria-text">Full-time</span>
    </li>
  </ul>
</body></html>`

const companyPageHTML = `<html><body>
  <h1 class="org-top-card-summary__title">Acme Corp</h1>
  <p class="break-words">Acme builds rockets and related software.</p>
  <dl>
    <dt>Website</dt>
    <dd><a href="#">https://www.linkedin.com/redir/redirect?url=https%3A%2F%2Facme.example%2F&amp;urlhash=x</a></dd>
    <dt>Industry</dt>
    <dd>Aerospace</dd>
    <dt>Company size</dt>
    <dd>201-500 employees</dd>
    <dt>Headquarters</dt>
    <dd>Austin, Texas</dd>
  </dl>
</body></html>`

func TestExtractJob_FullPage(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]string{"https://example.com/job": jobPageHTML}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractJob(context.Background(), "https://example.com/job")
	require.NoError(t, err)

	assert.Equal(t, "Senior Go Engineer", record.Title)
	assert.Equal(t, "Acme Corp", record.CompanyName)
	assert.Equal(t, "Berlin, Germany", record.Location)
	assert.Equal(t, "2 weeks ago", record.PostedDate)
	assert.Equal(t, "Full-time", record.EmploymentType)
	assert.Equal(t, "Mid-Senior level", record.Seniority)
	assert.Equal(t, "https://example.com/job", record.URL)
	assert.Equal(t, "We build infrastructure.\nYou will write Go services.", record.Description)
}

func TestExtractJob_FallbackSelectors(t *testing.T) {
	html := `<html><body>
	  <h1 class="job-details-jobs-unified-top-card__job-title">Engineer</h1>
	  <span class="job-details-jobs-unified-top-card__company-name">Globex</span>
	</body></html>`
	renderer := &fakeRenderer{pages: map[string]string{"u": html}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractJob(context.Background(), "u")
	require.NoError(t, err)

	assert.Equal(t, "Engineer", record.Title)
	assert.Equal(t, "Globex", record.CompanyName)
}

func TestExtractJob_MissingOptionalFieldsStayEmpty(t *testing.T) {
	html := `<html><body><h1 class="top-card-layout__title">Engineer</h1></body></html>`
	renderer := &fakeRenderer{pages: map[string]string{"u": html}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractJob(context.Background(), "u")
	require.NoError(t, err)

	assert.Empty(t, record.Location)
	assert.Empty(t, record.EmploymentType)
	assert.Empty(t, record.Seniority)
	assert.Empty(t, record.PostedDate)
}

func TestExtractJob_Expired(t *testing.T) {
	html := `<html><body>
	  <h1 class="top-card-layout__title">Engineer</h1>
	  <div class="closed-job">No longer accepting applications</div>
	</body></html>`
	renderer := &fakeRenderer{pages: map[string]string{"u": html}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	_, err := source.ExtractJob(context.Background(), "u")

	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, KindExpired, xerr.Kind)
}

func TestExtractJob_NotFoundShell(t *testing.T) {
	html := `<html><body>
	  <h1 class="not-found__main-headline">Page not found</h1>
	  <p>Uh oh, we can't seem to find the page you're looking for.</p>
	</body></html>`
	renderer := &fakeRenderer{pages: map[string]string{"u": html}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	_, err := source.ExtractJob(context.Background(), "u")

	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, KindWrongPage, xerr.Kind)
}

func TestExtractJob_AllSelectorsMissingYieldsEmptyRecord(t *testing.T) {
	// A real content page whose markup drifted away from every selector
	// still extracts; the misses degrade to empty fields.
	renderer := &fakeRenderer{pages: map[string]string{"u": `<html><body><p>redesigned posting layout</p></body></html>`}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractJob(context.Background(), "u")
	require.NoError(t, err)

	assert.Empty(t, record.Title)
	assert.Empty(t, record.CompanyName)
	assert.Equal(t, "u", record.URL)
}

func TestExtractJob_PageLoadFailure(t *testing.T) {
	cause := fmt.Errorf("browser crashed")
	renderer := &fakeRenderer{err: cause}
	source := NewLinkedIn(renderer, false, "run-1", false)

	_, err := source.ExtractJob(context.Background(), "u")

	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, KindPageLoad, xerr.Kind)
	assert.ErrorIs(t, err, cause)
}

func TestExtractCompany_AboutPage(t *testing.T) {
	about := "https://www.linkedin.com/company/acme/about/"
	renderer := &fakeRenderer{pages: map[string]string{about: companyPageHTML}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractCompany(context.Background(), "https://www.linkedin.com/company/acme")
	require.NoError(t, err)

	require.Equal(t, []string{about}, renderer.urls, "must fetch the /about/ subpage")
	assert.Equal(t, "Acme Corp", record.Name)
	assert.Equal(t, "Aerospace", record.Industry)
	assert.Equal(t, "201-500 employees", record.Size)
	assert.Equal(t, "https://acme.example/", record.Website)
	assert.Equal(t, "Austin, Texas", record.Headquarters)
	assert.Equal(t, "Acme builds rockets and related software.", record.Description)
	assert.Equal(t, "https://www.linkedin.com/company/acme", record.URL)
}

func TestExtractCompany_NotFoundShell(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]string{
		"https://x/about/": `<html><body><section class="error-404"><h1>This page doesn’t exist</h1></section></body></html>`,
	}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	_, err := source.ExtractCompany(context.Background(), "https://x")

	var xerr *ExtractionError
	require.ErrorAs(t, err, &xerr)
	assert.Equal(t, KindWrongPage, xerr.Kind)
}

func TestExtractCompany_AllSelectorsMissingYieldsEmptyRecord(t *testing.T) {
	renderer := &fakeRenderer{pages: map[string]string{
		"https://x/about/": `<html><body><div>new about layout</div></body></html>`,
	}}
	source := NewLinkedIn(renderer, false, "run-1", false)

	record, err := source.ExtractCompany(context.Background(), "https://x")
	require.NoError(t, err)

	assert.Empty(t, record.Name)
	assert.Equal(t, "https://x", record.URL)
}

func TestAboutURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://www.linkedin.com/company/acme", "https://www.linkedin.com/company/acme/about/"},
		{"https://www.linkedin.com/company/acme/", "https://www.linkedin.com/company/acme/about/"},
		{"https://www.linkedin.com/company/acme/about", "https://www.linkedin.com/company/acme/about/"},
		{"https://www.linkedin.com/company/acme/about/", "https://www.linkedin.com/company/acme/about/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, aboutURL(tt.in), tt.in)
	}
}

func TestCleanWebsite(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain URL untouched", "https://acme.example", "https://acme.example"},
		{"redirect unwrapped", "https://www.linkedin.com/redir/redirect?url=https%3A%2F%2Facme.example%2F&urlhash=x", "https://acme.example/"},
		{"redirect without target kept", "https://www.linkedin.com/redir/redirect?urlhash=x", "https://www.linkedin.com/redir/redirect?urlhash=x"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanWebsite(tt.in))
		})
	}
}

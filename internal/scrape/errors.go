package scrape

import "fmt"

// ErrorKind distinguishes the ways extraction can fail.
type ErrorKind int

const (
	// KindPageLoad means the page could not be rendered at all.
	KindPageLoad ErrorKind = iota
	// KindWrongPage means the page rendered but does not look like the
	// expected LinkedIn page type.
	KindWrongPage
	// KindExpired means the job posting is no longer accepting applications.
	KindExpired
)

// ExtractionError reports a failed extraction. A missing individual field is
// not an error; only a page-level failure is.
type ExtractionError struct {
	Kind    ErrorKind
	URL     string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("extraction failed for %s: %s", e.URL, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

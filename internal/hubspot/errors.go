package hubspot

import "fmt"

// AuthError indicates the API key was rejected (expired, revoked, or wrong
// scope). The operator must fix the key; retrying will not help.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("hubspot auth error (status %d): check HUBSPOT_API_KEY: %s", e.StatusCode, e.Body)
}

// RateLimitError indicates the API rejected the call with 429. The operator
// can simply wait and re-run; no automatic retry is attempted.
type RateLimitError struct {
	Body string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("hubspot rate limit exceeded: %s", e.Body)
}

// NetworkError wraps a transport-level failure (DNS, TLS, timeout).
type NetworkError struct {
	Operation string
	Cause     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("hubspot network error during %s: %v", e.Operation, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// APIError is any other non-success response from the API.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hubspot API error during %s (status %d): %s", e.Operation, e.StatusCode, e.Body)
}

// PartialPublishError reports a publish sequence that failed after creating
// real objects in the destination. The identifiers it carries are external
// state the operator must reconcile by hand; no rollback is attempted.
type PartialPublishError struct {
	CompanyID string
	DealID    string
	Cause     error
}

func (e *PartialPublishError) Error() string {
	if e.DealID != "" {
		return fmt.Sprintf("partial publish: company %s and deal %s were created but association failed: %v",
			e.CompanyID, e.DealID, e.Cause)
	}
	return fmt.Sprintf("partial publish: company %s was created but deal creation failed: %v",
		e.CompanyID, e.Cause)
}

func (e *PartialPublishError) Unwrap() error {
	return e.Cause
}

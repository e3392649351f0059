// Package platform defines the source/destination capability interfaces and
// the registries that select an implementation from the config type strings.
// Adding a new page source or CRM destination means registering a new
// implementation, not editing dispatch code.
package platform

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/linktolead/internal/types"
)

// Source extracts job and company records from an external site.
type Source interface {
	ExtractJob(ctx context.Context, jobURL string) (*types.JobRecord, error)
	ExtractCompany(ctx context.Context, companyURL string) (*types.CompanyRecord, error)
}

// Destination publishes a reviewed payload to an external CRM.
type Destination interface {
	Publish(ctx context.Context, payload *types.Payload) (*types.PublishResult, error)
}

var (
	sources      = map[string]Source{}
	destinations = map[string]Destination{}
)

// RegisterSource registers a source implementation under a config type name.
// Re-registering a name replaces the previous implementation.
func RegisterSource(name string, s Source) {
	sources[strings.ToLower(name)] = s
}

// RegisterDestination registers a destination implementation under a config
// type name.
func RegisterDestination(name string, d Destination) {
	destinations[strings.ToLower(name)] = d
}

// LookupSource resolves a config source type to its implementation.
func LookupSource(name string) (Source, error) {
	s, ok := sources[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown source platform %q (available: %s)", name, keys(sources))
	}
	return s, nil
}

// LookupDestination resolves a config destination type to its implementation.
func LookupDestination(name string) (Destination, error) {
	d, ok := destinations[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown destination platform %q (available: %s)", name, keys(destinations))
	}
	return d, nil
}

func keys[V any](m map[string]V) string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

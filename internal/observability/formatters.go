// Package observability provides formatted terminal output for the review
// prompt and verbose mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/linktolead/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxValueLength truncates long property values (full descriptions) for display
	maxValueLength = 56
)

// Printer handles formatted output for the terminal.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPayload renders the full payload for operator review: one box for the
// Company object and one for the Deal object, properties sorted by name.
func (p *Printer) PrintPayload(payload *types.Payload) {
	if payload == nil {
		return
	}
	p.printBox("COMPANY", formatProperties(payload.Company.Properties))
	p.printBox("DEAL", formatProperties(payload.Deal.Properties))
}

// PrintJobRecord outputs a verbose-mode summary of the scraped job record.
func (p *Printer) PrintJobRecord(rec *types.JobRecord) {
	if rec == nil {
		return
	}
	p.printBox("SCRAPED JOB", formatProperties(rec.Fields()))
}

// PrintCompanyRecord outputs a verbose-mode summary of the scraped company record.
func (p *Printer) PrintCompanyRecord(rec *types.CompanyRecord) {
	if rec == nil {
		return
	}
	p.printBox("SCRAPED COMPANY", formatProperties(rec.Fields()))
}

// PrintResult reports the identifiers created in the destination.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintResult(result *types.PublishResult) {
	if result == nil {
		return
	}
	fmt.Fprintf(p.out, "Created company %s and deal %s\n", result.CompanyID, result.DealID)
}

func formatProperties(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, key := range keys {
		value := strings.ReplaceAll(props[key], "\n", " ")
		if value == "" {
			value = "(empty)"
		}
		if len(value) > maxValueLength {
			value = value[:maxValueLength-3] + "..."
		}
		sb.WriteString(fmt.Sprintf("%-22s %s\n", key+":", value))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

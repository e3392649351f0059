package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/linktolead/internal/types"
)

func TestPrintPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintPayload(&types.Payload{
		Company: types.Properties{Properties: map[string]string{"name": "Acme", "industry": "Software"}},
		Deal:    types.Properties{Properties: map[string]string{"dealname": "Engineer at Acme"}},
	})

	out := buf.String()
	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "DEAL")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Engineer at Acme")
}

func TestPrintPayload_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPayload(nil)
	assert.Empty(t, buf.String())
}

func TestPrintPayload_TruncatesLongValues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	p.PrintPayload(&types.Payload{
		Company: types.Properties{Properties: map[string]string{"description": string(long)}},
		Deal:    types.Properties{Properties: map[string]string{}},
	})

	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), string(long))
}

func TestPrintJobRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobRecord(&types.JobRecord{Title: "Engineer", URL: "https://example.com"})

	assert.Contains(t, buf.String(), "SCRAPED JOB")
	assert.Contains(t, buf.String(), "Engineer")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&types.PublishResult{CompanyID: "100", DealID: "200"})

	assert.Contains(t, buf.String(), "100")
	assert.Contains(t, buf.String(), "200")
}

package enhance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/linktolead/internal/types"
)

// fakeClient returns a canned response, or an error when failing is set.
type fakeClient struct {
	response string
	failing  bool
	calls    int
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.failing {
		return "", errors.New("model unavailable")
	}
	return f.response, nil
}

func (f *fakeClient) Close() error { return nil }

func TestEnhanceJob_RevisesRichFields(t *testing.T) {
	client := &fakeClient{response: "Cleaned text"}
	e := New(client, false)

	in := &types.JobRecord{
		Title:       "Senior Engineer",
		Description: "<div>messy html</div>",
		PostedDate:  "2 weeks ago",
		URL:         "https://www.linkedin.com/jobs/view/1/",
	}
	out := e.EnhanceJob(context.Background(), in)

	assert.Equal(t, "Cleaned text", out.Description)
	assert.Equal(t, "Cleaned text", out.PostedDate)
	// Fields outside the enhancement set pass through verbatim.
	assert.Equal(t, "Senior Engineer", out.Title)
	assert.Equal(t, in.URL, out.URL)
}

func TestEnhanceJob_FieldSetPreserved(t *testing.T) {
	for name, client := range map[string]*fakeClient{
		"success":  {response: "revised"},
		"failsoft": {failing: true},
	} {
		t.Run(name, func(t *testing.T) {
			e := New(client, false)
			in := &types.JobRecord{Title: "T", Description: "D", URL: "u"}
			out := e.EnhanceJob(context.Background(), in)

			inFields := in.Fields()
			outFields := out.Fields()
			require.Equal(t, len(inFields), len(outFields))
			for key := range inFields {
				_, ok := outFields[key]
				assert.True(t, ok, "field %q must survive enhancement", key)
			}
		})
	}
}

func TestEnhanceCompany_FailSoftKeepsOriginal(t *testing.T) {
	client := &fakeClient{failing: true}
	e := New(client, false)

	in := &types.CompanyRecord{
		Name:        "Acme",
		Description: "original description",
		Size:        "51-200 employees",
	}
	out := e.EnhanceCompany(context.Background(), in)

	assert.Equal(t, "original description", out.Description)
	assert.Equal(t, "51-200 employees", out.Size)
	assert.Equal(t, "Acme", out.Name)
}

func TestEnhance_SkipsEmptyFields(t *testing.T) {
	client := &fakeClient{response: "should not appear"}
	e := New(client, false)

	out := e.EnhanceJob(context.Background(), &types.JobRecord{Title: "T"})

	assert.Equal(t, "", out.Description)
	assert.Equal(t, 0, client.calls)
}

func TestEnhance_EmptyResponseKeepsOriginal(t *testing.T) {
	client := &fakeClient{response: "   "}
	e := New(client, false)

	out := e.EnhanceCompany(context.Background(), &types.CompanyRecord{Description: "keep me"})
	assert.Equal(t, "keep me", out.Description)
}

func TestEnhance_InputNotMutated(t *testing.T) {
	client := &fakeClient{response: "changed"}
	e := New(client, false)

	in := &types.JobRecord{Description: "original"}
	_ = e.EnhanceJob(context.Background(), in)
	assert.Equal(t, "original", in.Description)
}

// Package hubspot implements the CRM destination: a thin client over the
// HubSpot objects API that creates a Company, a Deal, and the association
// between them.
package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/linktolead/internal/types"
)

// DefaultBaseURL is the production HubSpot API endpoint.
const DefaultBaseURL = "https://api.hubapi.com"

// DefaultTimeout applies independently to each HTTP call.
const DefaultTimeout = 30 * time.Second

// Options configures the client. The zero value selects production defaults;
// BaseURL is overridable for tests.
type Options struct {
	BaseURL    string
	APIVersion string
	Timeout    time.Duration
}

// Client talks to the HubSpot CRM objects API.
type Client struct {
	http       *resty.Client
	apiVersion string
}

// New creates a client authenticated with a private-app bearer token.
func New(apiKey string, opts *Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("hubspot API key is required")
	}
	if opts == nil {
		opts = &Options{}
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	apiVersion := opts.APIVersion
	if apiVersion == "" {
		apiVersion = "v3"
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: http, apiVersion: apiVersion}, nil
}

// objectResponse is the slice of the create-object response we care about.
type objectResponse struct {
	ID string `json:"id"`
}

// TestConnection verifies the API key by listing a single deal.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get(fmt.Sprintf("/crm/%s/objects/deals", c.apiVersion))
	if err != nil {
		return &NetworkError{Operation: "connection test", Cause: err}
	}
	return c.checkStatus("connection test", resp)
}

// CreateCompany creates a Company object and returns its id.
func (c *Client) CreateCompany(ctx context.Context, props map[string]string) (string, error) {
	return c.createObject(ctx, "companies", props)
}

// CreateDeal creates a Deal object and returns its id. The deal is created
// without inline associations; Associate links it to its company afterwards.
func (c *Client) CreateDeal(ctx context.Context, props map[string]string) (string, error) {
	return c.createObject(ctx, "deals", props)
}

func (c *Client) createObject(ctx context.Context, objectType string, props map[string]string) (string, error) {
	operation := "create " + objectType

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"properties": props}).
		Post(fmt.Sprintf("/crm/%s/objects/%s", c.apiVersion, objectType))
	if err != nil {
		return "", &NetworkError{Operation: operation, Cause: err}
	}
	if err := c.checkStatus(operation, resp); err != nil {
		return "", err
	}

	var obj objectResponse
	if err := json.Unmarshal(resp.Body(), &obj); err != nil {
		return "", &APIError{Operation: operation, StatusCode: resp.StatusCode(), Body: "unparseable response body"}
	}
	if obj.ID == "" {
		return "", &APIError{Operation: operation, StatusCode: resp.StatusCode(), Body: "response missing object id"}
	}
	return obj.ID, nil
}

// dealToCompanyTypeID is the HUBSPOT_DEFINED association type for
// deal-to-company.
const dealToCompanyTypeID = 1

// Associate links a deal to a company using the HUBSPOT_DEFINED
// deal-to-company association. The associations API lives at v4 regardless
// of the objects API version.
func (c *Client) Associate(ctx context.Context, companyID, dealID string) error {
	operation := "associate deal with company"

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody([]map[string]any{{
			"associationCategory": "HUBSPOT_DEFINED",
			"associationTypeId":   dealToCompanyTypeID,
		}}).
		Put(fmt.Sprintf("/crm/v4/objects/deals/%s/associations/companies/%s", dealID, companyID))
	if err != nil {
		return &NetworkError{Operation: operation, Cause: err}
	}
	return c.checkStatus(operation, resp)
}

// Publish runs the create-company, create-deal, associate sequence. Order
// matters: the association call requires both identifiers to exist. A
// failure after the first successful create is reported as a
// PartialPublishError carrying every identifier already created.
func (c *Client) Publish(ctx context.Context, payload *types.Payload) (*types.PublishResult, error) {
	companyID, err := c.CreateCompany(ctx, payload.Company.Properties)
	if err != nil {
		return nil, err
	}
	log.Printf("created company %s", companyID)

	dealID, err := c.CreateDeal(ctx, payload.Deal.Properties)
	if err != nil {
		return nil, &PartialPublishError{CompanyID: companyID, Cause: err}
	}
	log.Printf("created deal %s", dealID)

	if err := c.Associate(ctx, companyID, dealID); err != nil {
		return nil, &PartialPublishError{CompanyID: companyID, DealID: dealID, Cause: err}
	}

	return &types.PublishResult{CompanyID: companyID, DealID: dealID}, nil
}

// checkStatus maps response status codes onto the error taxonomy.
func (c *Client) checkStatus(operation string, resp *resty.Response) error {
	switch {
	case resp.StatusCode() >= 200 && resp.StatusCode() < 300:
		return nil
	case resp.StatusCode() == 401 || resp.StatusCode() == 403:
		return &AuthError{StatusCode: resp.StatusCode(), Body: bodySnippet(resp)}
	case resp.StatusCode() == 429:
		return &RateLimitError{Body: bodySnippet(resp)}
	default:
		return &APIError{Operation: operation, StatusCode: resp.StatusCode(), Body: bodySnippet(resp)}
	}
}

func bodySnippet(resp *resty.Response) string {
	body := resp.String()
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return body
}

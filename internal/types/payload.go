package types

// Properties is a flat property map for one destination object, matching the
// HubSpot objects API request body shape.
type Properties struct {
	Properties map[string]string `json:"properties" yaml:"properties"`
}

// Payload is the formatted output ready for review and publishing: one
// property set for the Company object and one for the Deal object.
type Payload struct {
	Company Properties `json:"company" yaml:"company"`
	Deal    Properties `json:"deal" yaml:"deal"`
}

// Clone returns a deep copy of the payload. The reviewer edits copies so a
// failed edit never corrupts the last good payload.
func (p *Payload) Clone() *Payload {
	out := &Payload{
		Company: Properties{Properties: make(map[string]string, len(p.Company.Properties))},
		Deal:    Properties{Properties: make(map[string]string, len(p.Deal.Properties))},
	}
	for k, v := range p.Company.Properties {
		out.Company.Properties[k] = v
	}
	for k, v := range p.Deal.Properties {
		out.Deal.Properties[k] = v
	}
	return out
}

// PublishResult carries the identifiers created in the destination CRM.
type PublishResult struct {
	CompanyID string `json:"company_id"`
	DealID    string `json:"deal_id"`
}

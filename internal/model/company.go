package model

// Company is a candidate vendor profile as stored or imported.
type Company struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	NAICSCodes          []string `json:"naics_codes,omitempty"`
	Status              []string `json:"status,omitempty"` // set-aside certifications held
	Capabilities        []string `json:"capabilities,omitempty"`
	Keywords            []string `json:"keywords,omitempty"`
	Clearances          []string `json:"clearances,omitempty"`
	Locations           []string `json:"locations,omitempty"`
	Employees           int      `json:"employees,omitempty"`
	AnnualRevenue       float64  `json:"annual_revenue,omitempty"`
	Description         string   `json:"description,omitempty"`
	CapabilityStatement string   `json:"capability_statement,omitempty"`
	Website             string   `json:"website,omitempty"`
}

// PastPerformanceText joins the free-text fields used by the past
// performance scorer.
func (c Company) PastPerformanceText() string {
	if c.CapabilityStatement != "" && c.Description != "" {
		return c.Description + " " + c.CapabilityStatement
	}
	if c.CapabilityStatement != "" {
		return c.CapabilityStatement
	}
	return c.Description
}

package domain

// Company is a read-only collaborator record used for fuzzy matching at
// ingest time. A posting references it weakly via CompanyID and must work
// fine with no match at all.
type Company struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	CareersPage string `json:"careersPage,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
	Trusted     bool   `json:"trusted"`
}

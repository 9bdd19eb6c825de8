package domain

// Address is a mailing address owned by exactly one customer.
// Line1/Line2 are capped at 50 characters, City/State/PostalCode at 20,
// Country at 30 — enforced by the schema, not by this struct.
type Address struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Label      string `json:"label,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

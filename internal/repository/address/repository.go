package address

import (
	"context"

	"customerdesk/internal/domain"
)

// SearchQuery holds reverse-search criteria. Blank fields are not applied;
// Pincode contributes only its digit characters.
type SearchQuery struct {
	City    string
	State   string
	Pincode string
	Offset  int
	Limit   int
}

// Match pairs an owning customer with the addresses that matched a search.
type Match struct {
	Customer  domain.Customer
	Addresses []domain.Address
}

// Patch holds the editable address fields; nil fields are left untouched.
// CustomerID is deliberately absent — ownership is never client-editable.
type Patch struct {
	Label      *string
	Line1      *string
	Line2      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

// Repository persists and fetches addresses.
type Repository interface {
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	// CreateBatch inserts all addresses in one transaction; on failure none
	// of them persist.
	CreateBatch(ctx context.Context, addrs []domain.Address) ([]domain.Address, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Address, error)
	// Update patches an address scoped to its owning customer. Returns
	// domain.ErrNotFound when the address does not exist or belongs to a
	// different customer.
	Update(ctx context.Context, customerID, addressID string, p Patch) (*domain.Address, error)
	Delete(ctx context.Context, customerID, addressID string) error
	DeleteByCustomer(ctx context.Context, customerID string) error
	// CountByCustomer returns address counts keyed by customer id. An empty
	// id set aggregates over all addresses.
	CountByCustomer(ctx context.Context, customerIDs []string) (map[string]int, error)
	// Search returns matches grouped by distinct owning customer, ordered by
	// customer id ascending, paged over the customer groups. The total is the
	// number of distinct matching customers.
	Search(ctx context.Context, q SearchQuery) ([]Match, int, error)
}

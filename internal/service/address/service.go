package address

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"

	"customerdesk/internal/domain"
	addrrepo "customerdesk/internal/repository/address"
	custrepo "customerdesk/internal/repository/customer"
)

const defaultSearchLimit = 20

// Service implements address operations scoped to a customer, the reverse
// address search and the per-customer address counts.
type Service struct {
	customers custrepo.Repository
	addresses addrrepo.Repository
	logger    *log.Logger
}

// New creates a Service.
func New(customers custrepo.Repository, addresses addrrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{customers: customers, addresses: addresses, logger: logger}
}

// Input mirrors incoming address payloads.
type Input struct {
	Label      string `json:"label"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// UpdateInput holds the editable address fields; absent keys stay nil.
// Anything outside this allow-list is dropped during JSON binding.
type UpdateInput struct {
	Label      *string `json:"label"`
	Line1      *string `json:"line1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	Country    *string `json:"country"`
}

// SearchInput carries reverse-search criteria and raw paging values.
type SearchInput struct {
	City    string
	State   string
	Pincode string
	Page    int
	Limit   int
}

// SearchResult is a page of per-customer match groups.
type SearchResult struct {
	Matches    []addrrepo.Match
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// CustomerAddresses is a customer plus its refreshed address list, returned
// by every scoped mutation.
type CustomerAddresses struct {
	Customer  domain.Customer
	Addresses []domain.Address
}

// Counts returns address counts for the given customer ids. Syntactically
// invalid ids are dropped and duplicates collapsed. When no valid id
// remains, the aggregation runs unfiltered over all addresses — a behavior
// inherited from the system this replaces and relied on by callers.
func (s *Service) Counts(ctx context.Context, customerIDs []string) (map[string]int, error) {
	valid := make([]string, 0, len(customerIDs))
	seen := make(map[string]struct{}, len(customerIDs))
	for _, raw := range customerIDs {
		id := strings.TrimSpace(raw)
		if id == "" || uuid.Validate(id) != nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		valid = append(valid, id)
	}
	return s.addresses.CountByCustomer(ctx, valid)
}

// Search finds addresses matching all provided criteria and pages over the
// distinct owning customers. Without any usable criterion it answers an
// empty page without touching the store.
func (s *Service) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	page := domain.NormalizePage(in.Page)
	limit := domain.NormalizeLimit(in.Limit, defaultSearchLimit)

	city := strings.TrimSpace(in.City)
	state := strings.TrimSpace(in.State)
	if city == "" && state == "" && domain.DigitsOnly(in.Pincode) == "" {
		return &SearchResult{Matches: []addrrepo.Match{}, Page: page, Limit: limit, Total: 0, TotalPages: 1}, nil
	}

	matches, total, err := s.addresses.Search(ctx, addrrepo.SearchQuery{
		City:    city,
		State:   state,
		Pincode: in.Pincode,
		Offset:  domain.Offset(page, limit),
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []addrrepo.Match{}
	}
	return &SearchResult{
		Matches:    matches,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}

// Add attaches a new address to an existing customer.
func (s *Service) Add(ctx context.Context, customerID string, in Input) (*CustomerAddresses, error) {
	if !validID(customerID) {
		return nil, domain.ErrInvalidID
	}
	if missing := missingFields(in); len(missing) > 0 {
		return nil, domain.Invalid("missing required fields: " + strings.Join(missing, ", "))
	}

	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if _, err := s.addresses.Create(ctx, domain.Address{
		CustomerID: customerID,
		Label:      strings.TrimSpace(in.Label),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
	}); err != nil {
		return nil, err
	}
	return s.withAddresses(ctx, cust)
}

// Update patches an address that must belong to the given customer.
func (s *Service) Update(ctx context.Context, customerID, addressID string, in UpdateInput) (*CustomerAddresses, error) {
	if !validID(customerID) || !validID(addressID) {
		return nil, domain.ErrInvalidID
	}

	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	patch := addrrepo.Patch{
		Label:      trimmed(in.Label),
		Line1:      trimmed(in.Line1),
		Line2:      trimmed(in.Line2),
		City:       trimmed(in.City),
		State:      trimmed(in.State),
		PostalCode: trimmed(in.PostalCode),
		Country:    trimmed(in.Country),
	}
	if _, err := s.addresses.Update(ctx, customerID, addressID, patch); err != nil {
		return nil, err
	}
	return s.withAddresses(ctx, cust)
}

// Remove deletes an address that must belong to the given customer.
func (s *Service) Remove(ctx context.Context, customerID, addressID string) (*CustomerAddresses, error) {
	if !validID(customerID) || !validID(addressID) {
		return nil, domain.ErrInvalidID
	}

	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.addresses.Delete(ctx, customerID, addressID); err != nil {
		return nil, err
	}
	return s.withAddresses(ctx, cust)
}

func (s *Service) withAddresses(ctx context.Context, cust *domain.Customer) (*CustomerAddresses, error) {
	addrs, err := s.addresses.ListByCustomer(ctx, cust.ID)
	if err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return &CustomerAddresses{Customer: *cust, Addresses: addrs}, nil
}

func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func missingFields(in Input) []string {
	var missing []string
	if strings.TrimSpace(in.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(in.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(in.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(in.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	if strings.TrimSpace(in.Country) == "" {
		missing = append(missing, "country")
	}
	return missing
}

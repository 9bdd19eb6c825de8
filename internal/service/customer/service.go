package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"customerdesk/internal/domain"
	addrrepo "customerdesk/internal/repository/address"
	custrepo "customerdesk/internal/repository/customer"
)

const (
	defaultListLimit = 10
	defaultSort      = "firstName,lastName"
)

// Service implements customer listing, detail fetch, creation, partial
// update and cascade delete.
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

// ListInput carries raw listing parameters; out-of-range paging values are
// clamped, not rejected.
type ListInput struct {
	Search string
	Page   int
	Limit  int
	Sort   string
}

// ListResult is a page of customers plus paging metadata.
type ListResult struct {
	Customers  []domain.Customer
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// AddressInput mirrors incoming address payloads.
type AddressInput struct {
	Label      string `json:"label"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// CreateInput captures fields expected by the add-customer endpoint.
type CreateInput struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Addresses []AddressInput `json:"addresses"`
}

// UpdateInput holds the patchable customer fields; absent keys stay nil and
// leave stored values untouched.
type UpdateInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// Detail is a customer joined with the addresses it owns.
type Detail struct {
	Customer  domain.Customer
	Addresses []domain.Address
}

// DeleteOutcome reports which delete strategy succeeded.
type DeleteOutcome int

const (
	// DeleteCommitted means the transactional path removed customer and
	// addresses atomically.
	DeleteCommitted DeleteOutcome = iota + 1
	// DeleteFallbackApplied means the transaction failed and the sequential
	// best-effort path completed instead.
	DeleteFallbackApplied
)

// List returns a page of customers matching the free-text search.
func (s *Service) List(ctx context.Context, in ListInput) (*ListResult, error) {
	page := domain.NormalizePage(in.Page)
	limit := domain.NormalizeLimit(in.Limit, defaultListLimit)
	sort := strings.TrimSpace(in.Sort)
	if sort == "" {
		sort = defaultSort
	}

	customers, total, err := s.customers.List(ctx, custrepo.ListQuery{
		Search: in.Search,
		Sort:   sort,
		Offset: domain.Offset(page, limit),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return &ListResult{
		Customers:  customers,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: domain.TotalPages(total, limit),
	}, nil
}

// Get fetches a customer and its addresses concurrently.
func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}

	var (
		cust  *domain.Customer
		addrs []domain.Address
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.customers.GetByID(gctx, id)
		if err != nil {
			return err
		}
		cust = c
		return nil
	})
	g.Go(func() error {
		a, err := s.addresses.ListByCustomer(gctx, id)
		if err != nil {
			return err
		}
		addrs = a
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return &Detail{Customer: *cust, Addresses: addrs}, nil
}

// Create registers a customer together with at least one address. The email
// must not be in use. If the address insert fails after the customer row was
// written, the customer row stays — callers see the validation failure and a
// customer without addresses, matching the system this replaces.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Detail, error) {
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)
	if first == "" || last == "" || email == "" || phone == "" {
		return nil, domain.Invalid("firstName, lastName, email and phone are required")
	}
	if len(in.Addresses) == 0 {
		return nil, domain.Invalid("at least one address is required")
	}
	for i, a := range in.Addresses {
		if missing := missingAddressFields(a); len(missing) > 0 {
			return nil, domain.Invalid(fmt.Sprintf("address #%d is missing required fields: %s", i+1, strings.Join(missing, ", ")))
		}
	}

	if _, err := s.customers.GetByEmail(ctx, email, ""); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	created, err := s.customers.Create(ctx, domain.Customer{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
	})
	if err != nil {
		return nil, err
	}

	batch := make([]domain.Address, 0, len(in.Addresses))
	for _, a := range in.Addresses {
		batch = append(batch, trimAddress(created.ID, a))
	}
	addrs, err := s.addresses.CreateBatch(ctx, batch)
	if err != nil {
		s.logger.Printf("customer service: address insert failed, customer %s kept without addresses: %v", created.ID, err)
		return nil, domain.Invalid(fmt.Sprintf("invalid address data: %v", err))
	}
	return &Detail{Customer: *created, Addresses: addrs}, nil
}

// Update applies a partial patch. An email change is re-checked for
// uniqueness against every other customer.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Detail, error) {
	if !validID(id) {
		return nil, domain.ErrInvalidID
	}

	patch := custrepo.Patch{
		FirstName: trimmed(in.FirstName),
		LastName:  trimmed(in.LastName),
		Email:     trimmed(in.Email),
		Phone:     trimmed(in.Phone),
	}
	if patch.Email != nil && *patch.Email != "" {
		if _, err := s.customers.GetByEmail(ctx, *patch.Email, id); err == nil {
			return nil, domain.ErrAlreadyExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	updated, err := s.customers.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	addrs, err := s.addresses.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if addrs == nil {
		addrs = []domain.Address{}
	}
	return &Detail{Customer: *updated, Addresses: addrs}, nil
}

// Delete removes a customer and all owned addresses. It first attempts a
// single transaction; if that fails for any reason other than a missing
// customer, it retries with sequential best-effort deletes. A failure on the
// fallback path may leave partial state behind.
func (s *Service) Delete(ctx context.Context, id string) (DeleteOutcome, error) {
	if !validID(id) {
		return 0, domain.ErrInvalidID
	}

	err := s.customers.DeleteWithAddresses(ctx, id)
	if err == nil {
		return DeleteCommitted, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return 0, domain.ErrNotFound
	}

	s.logger.Printf("customer service: transactional delete of %s failed, attempting fallback: %v", id, err)

	if _, err := s.customers.GetByID(ctx, id); err != nil {
		return 0, err
	}
	if err := s.addresses.DeleteByCustomer(ctx, id); err != nil {
		return 0, err
	}
	if err := s.customers.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return 0, err
	}
	return DeleteFallbackApplied, nil
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

func missingAddressFields(a AddressInput) []string {
	var missing []string
	if strings.TrimSpace(a.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.State) == "" {
		missing = append(missing, "state")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postalCode")
	}
	if strings.TrimSpace(a.Country) == "" {
		missing = append(missing, "country")
	}
	return missing
}

func trimAddress(customerID string, a AddressInput) domain.Address {
	return domain.Address{
		CustomerID: customerID,
		Label:      strings.TrimSpace(a.Label),
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

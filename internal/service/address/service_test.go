package address

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"customerdesk/internal/domain"
	addrrepo "customerdesk/internal/repository/address"
	custrepo "customerdesk/internal/repository/customer"
)

// stubAddresses records calls and serves canned results.
type stubAddresses struct {
	items []domain.Address

	countCalls  [][]string
	countResult map[string]int

	searchCalls  []addrrepo.SearchQuery
	searchResult []addrrepo.Match
	searchTotal  int
}

func (r *stubAddresses) Create(_ context.Context, a domain.Address) (*domain.Address, error) {
	a.ID = uuid.NewString()
	r.items = append(r.items, a)
	clone := a
	return &clone, nil
}

func (r *stubAddresses) CreateBatch(_ context.Context, addrs []domain.Address) ([]domain.Address, error) {
	created := make([]domain.Address, 0, len(addrs))
	for _, a := range addrs {
		a.ID = uuid.NewString()
		r.items = append(r.items, a)
		created = append(created, a)
	}
	return created, nil
}

func (r *stubAddresses) ListByCustomer(_ context.Context, customerID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range r.items {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *stubAddresses) Update(_ context.Context, customerID, addressID string, p addrrepo.Patch) (*domain.Address, error) {
	for i, a := range r.items {
		if a.ID == addressID && a.CustomerID == customerID {
			if p.Label != nil {
				a.Label = *p.Label
			}
			if p.Line1 != nil {
				a.Line1 = *p.Line1
			}
			if p.City != nil {
				a.City = *p.City
			}
			r.items[i] = a
			clone := a
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAddresses) Delete(_ context.Context, customerID, addressID string) error {
	for i, a := range r.items {
		if a.ID == addressID && a.CustomerID == customerID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubAddresses) DeleteByCustomer(_ context.Context, customerID string) error {
	kept := r.items[:0]
	for _, a := range r.items {
		if a.CustomerID != customerID {
			kept = append(kept, a)
		}
	}
	r.items = kept
	return nil
}

func (r *stubAddresses) CountByCustomer(_ context.Context, customerIDs []string) (map[string]int, error) {
	r.countCalls = append(r.countCalls, customerIDs)
	return r.countResult, nil
}

func (r *stubAddresses) Search(_ context.Context, q addrrepo.SearchQuery) ([]addrrepo.Match, int, error) {
	r.searchCalls = append(r.searchCalls, q)
	return r.searchResult, r.searchTotal, nil
}

// stubCustomers serves a fixed customer set; only lookups are exercised here.
type stubCustomers struct {
	items map[string]domain.Customer
}

func (r *stubCustomers) Create(_ context.Context, _ domain.Customer) (*domain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (r *stubCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := c
	return &clone, nil
}

func (r *stubCustomers) GetByEmail(_ context.Context, _, _ string) (*domain.Customer, error) {
	return nil, domain.ErrNotFound
}

func (r *stubCustomers) List(_ context.Context, _ custrepo.ListQuery) ([]domain.Customer, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (r *stubCustomers) Update(_ context.Context, _ string, _ custrepo.Patch) (*domain.Customer, error) {
	return nil, errors.New("not implemented")
}

func (r *stubCustomers) Delete(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func (r *stubCustomers) DeleteWithAddresses(_ context.Context, _ string) error {
	return errors.New("not implemented")
}

func newService(owners ...domain.Customer) (*Service, *stubCustomers, *stubAddresses) {
	custs := &stubCustomers{items: make(map[string]domain.Customer)}
	for _, c := range owners {
		custs.items[c.ID] = c
	}
	addrs := &stubAddresses{}
	return New(custs, addrs, nil), custs, addrs
}

func TestCounts_DropsInvalidIDsAndDeduplicates(t *testing.T) {
	svc, _, addrs := newService()
	valid := uuid.NewString()
	addrs.countResult = map[string]int{valid: 3}

	counts, err := svc.Counts(context.Background(), []string{" " + valid + " ", valid, "not-an-id", ""})
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[valid] != 3 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if len(addrs.countCalls) != 1 || !reflect.DeepEqual(addrs.countCalls[0], []string{valid}) {
		t.Fatalf("expected single deduplicated id forwarded, got %+v", addrs.countCalls)
	}
}

func TestCounts_EmptyValidSetAggregatesAll(t *testing.T) {
	svc, _, addrs := newService()
	addrs.countResult = map[string]int{"a": 1, "b": 2}

	counts, err := svc.Counts(context.Background(), []string{"bogus", "also-bogus"})
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if len(counts) != 2 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if len(addrs.countCalls) != 1 || len(addrs.countCalls[0]) != 0 {
		t.Fatalf("expected unfiltered aggregation, got %+v", addrs.countCalls)
	}
}

func TestSearch_NoUsableCriterionShortCircuits(t *testing.T) {
	svc, _, addrs := newService()

	// A pincode without digits does not count as a criterion.
	res, err := svc.Search(context.Background(), SearchInput{City: "  ", Pincode: "abc", Page: 2, Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 || res.TotalPages != 1 || len(res.Matches) != 0 {
		t.Fatalf("unexpected empty-page envelope %+v", res)
	}
	if res.Page != 2 || res.Limit != 5 {
		t.Fatalf("paging values must be echoed, got %+v", res)
	}
	if len(addrs.searchCalls) != 0 {
		t.Fatalf("store must not be queried without criteria")
	}
}

func TestSearch_PagingEnvelope(t *testing.T) {
	svc, _, addrs := newService()
	addrs.searchResult = []addrrepo.Match{
		{Customer: domain.Customer{ID: "a"}},
		{Customer: domain.Customer{ID: "b"}},
	}
	addrs.searchTotal = 45

	res, err := svc.Search(context.Background(), SearchInput{City: " Spring ", Page: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Page != 2 || res.Limit != 20 || res.Total != 45 || res.TotalPages != 3 {
		t.Fatalf("unexpected envelope %+v", res)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("unexpected matches %+v", res.Matches)
	}

	q := addrs.searchCalls[0]
	if q.City != "Spring" || q.Offset != 20 || q.Limit != 20 {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestAdd_ValidatesAndRefreshesList(t *testing.T) {
	owner := domain.Customer{ID: uuid.NewString(), FirstName: "Jane"}
	svc, _, addrs := newService(owner)
	ctx := context.Background()

	in := Input{Line1: " 1 Main St ", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"}

	if _, err := svc.Add(ctx, "nope", in); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := svc.Add(ctx, uuid.NewString(), in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	var ve *domain.ValidationError
	if _, err := svc.Add(ctx, owner.ID, Input{Line1: "x"}); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if want := "missing required fields: city, state, postalCode, country"; ve.Reason != want {
		t.Fatalf("unexpected message %q", ve.Reason)
	}

	res, err := svc.Add(ctx, owner.ID, in)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if res.Customer.ID != owner.ID || len(res.Addresses) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Addresses[0].Line1 != "1 Main St" {
		t.Fatalf("expected trimmed line1, got %q", res.Addresses[0].Line1)
	}
	if len(addrs.items) != 1 {
		t.Fatalf("expected one stored address, got %d", len(addrs.items))
	}
}

func TestUpdate_ScopedToOwningCustomer(t *testing.T) {
	jane := domain.Customer{ID: uuid.NewString(), FirstName: "Jane"}
	john := domain.Customer{ID: uuid.NewString(), FirstName: "John"}
	svc, _, addrs := newService(jane, john)
	ctx := context.Background()

	created, err := addrs.Create(ctx, domain.Address{CustomerID: jane.ID, Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	label := "home"
	if _, err := svc.Update(ctx, john.ID, created.ID, UpdateInput{Label: &label}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound through foreign customer, got %v", err)
	}
	if _, err := svc.Update(ctx, jane.ID, "nope", UpdateInput{}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}

	res, err := svc.Update(ctx, jane.ID, created.ID, UpdateInput{Label: &label})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(res.Addresses) != 1 || res.Addresses[0].Label != "home" {
		t.Fatalf("unexpected result %+v", res.Addresses)
	}
	if res.Addresses[0].Line1 != "1 Main St" {
		t.Fatalf("untouched fields must survive, got %+v", res.Addresses[0])
	}
}

func TestRemove_ScopedToOwningCustomer(t *testing.T) {
	jane := domain.Customer{ID: uuid.NewString(), FirstName: "Jane"}
	john := domain.Customer{ID: uuid.NewString(), FirstName: "John"}
	svc, _, addrs := newService(jane, john)
	ctx := context.Background()

	created, err := addrs.Create(ctx, domain.Address{CustomerID: jane.ID, Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.Remove(ctx, john.ID, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound through foreign customer, got %v", err)
	}

	res, err := svc.Remove(ctx, jane.ID, created.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if len(res.Addresses) != 0 {
		t.Fatalf("expected refreshed empty list, got %+v", res.Addresses)
	}
	if len(addrs.items) != 0 {
		t.Fatalf("expected address removed, got %d", len(addrs.items))
	}
}

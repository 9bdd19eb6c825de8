package httpserver

import (
	"context"

	addrsvc "customerdesk/internal/service/address"
	custsvc "customerdesk/internal/service/customer"
)

// CustomerService is the slice of the customer service the handlers need.
type CustomerService interface {
	List(ctx context.Context, in custsvc.ListInput) (*custsvc.ListResult, error)
	Get(ctx context.Context, id string) (*custsvc.Detail, error)
	Create(ctx context.Context, in custsvc.CreateInput) (*custsvc.Detail, error)
	Update(ctx context.Context, id string, in custsvc.UpdateInput) (*custsvc.Detail, error)
	Delete(ctx context.Context, id string) (custsvc.DeleteOutcome, error)
}

// AddressService is the slice of the address service the handlers need.
type AddressService interface {
	Counts(ctx context.Context, customerIDs []string) (map[string]int, error)
	Search(ctx context.Context, in addrsvc.SearchInput) (*addrsvc.SearchResult, error)
	Add(ctx context.Context, customerID string, in addrsvc.Input) (*addrsvc.CustomerAddresses, error)
	Update(ctx context.Context, customerID, addressID string, in addrsvc.UpdateInput) (*addrsvc.CustomerAddresses, error)
	Remove(ctx context.Context, customerID, addressID string) (*addrsvc.CustomerAddresses, error)
}

// Deps bundles the services the router depends on.
type Deps struct {
	Customers CustomerService
	Addresses AddressService
}

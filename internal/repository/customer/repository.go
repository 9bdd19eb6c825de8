package customer

import (
	"context"

	"customerdesk/internal/domain"
)

// ListQuery describes a paged, sorted, optionally filtered customer listing.
type ListQuery struct {
	Search string
	Sort   string
	Offset int
	Limit  int
}

// Patch holds the fields a partial update may change; nil fields are left
// untouched.
type Patch struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// Repository persists and fetches customers.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	// GetByEmail looks up a customer by exact email. A non-empty excludeID
	// excludes that customer from the match, for update-time uniqueness checks.
	GetByEmail(ctx context.Context, email, excludeID string) (*domain.Customer, error)
	List(ctx context.Context, q ListQuery) ([]domain.Customer, int, error)
	Update(ctx context.Context, id string, p Patch) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	// DeleteWithAddresses removes the customer and all owned addresses in a
	// single transaction. Returns domain.ErrNotFound if the customer is absent.
	DeleteWithAddresses(ctx context.Context, id string) error
}

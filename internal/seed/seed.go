package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type customerSeed struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Addresses []addressSeed
}

type addressSeed struct {
	Label      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// Apply inserts basic seed data for manual testing. Customers are keyed by
// email; re-running replaces each seeded customer's address set.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	customers := []customerSeed{
		{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane.doe@example.com",
			Phone:     "+1 555-0100",
			Addresses: []addressSeed{
				{Label: "home", Line1: "1 Main St", City: "Springfield", State: "IL", PostalCode: "62701", Country: "US"},
				{Label: "work", Line1: "200 Oak Ave", Line2: "Suite 12", City: "Springfield", State: "IL", PostalCode: "62702", Country: "US"},
			},
		},
		{
			FirstName: "John",
			LastName:  "Smith",
			Email:     "john.smith@example.com",
			Phone:     "+1 555-0101",
			Addresses: []addressSeed{
				{Label: "home", Line1: "3 Elm Rd", City: "Springdale", State: "AR", PostalCode: "72762", Country: "US"},
			},
		},
	}

	for _, c := range customers {
		id, err := ensureCustomer(ctx, pool, c)
		if err != nil {
			return fmt.Errorf("ensure customer %s: %w", c.Email, err)
		}
		if err := replaceAddresses(ctx, pool, id, c.Addresses); err != nil {
			return fmt.Errorf("replace addresses for %s: %w", c.Email, err)
		}
	}

	return nil
}

// ensureCustomer looks up the seed customer by email and inserts it when
// missing. The email column carries no unique constraint, so the lookup runs
// first instead of ON CONFLICT.
func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed) (string, error) {
	var id string
	err := pool.QueryRow(ctx, `SELECT id::text FROM customers WHERE email = $1 LIMIT 1`, c.Email).Scan(&id)
	if err == nil {
		return id, nil
	}

	const q = `
INSERT INTO customers (first_name, last_name, email, phone)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`
	if err := pool.QueryRow(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func replaceAddresses(ctx context.Context, pool *pgxpool.Pool, customerID string, addrs []addressSeed) error {
	if _, err := pool.Exec(ctx, `DELETE FROM addresses WHERE customer_id = $1`, customerID); err != nil {
		return err
	}

	const q = `
INSERT INTO addresses (customer_id, label, line1, line2, city, state, postal_code, country)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6, $7, $8)
`
	for _, a := range addrs {
		if _, err := pool.Exec(ctx, q, customerID, a.Label, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country); err != nil {
			return err
		}
	}
	return nil
}

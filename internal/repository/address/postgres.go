package address

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customerdesk/internal/domain"
)

const addressCols = `id::text, customer_id::text, COALESCE(label, ''), line1, COALESCE(line2, ''), city, state, postal_code, country`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Address) (*domain.Address, error) {
	const q = `
INSERT INTO addresses (customer_id, label, line1, line2, city, state, postal_code, country)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6, $7, $8)
RETURNING ` + addressCols
	return r.scanAddress(r.pool.QueryRow(ctx, q, a.CustomerID, a.Label, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country))
}

func (r *postgresRepo) CreateBatch(ctx context.Context, addrs []domain.Address) ([]domain.Address, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO addresses (customer_id, label, line1, line2, city, state, postal_code, country)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6, $7, $8)
RETURNING ` + addressCols

	created := make([]domain.Address, 0, len(addrs))
	for _, a := range addrs {
		inserted, err := r.scanAddress(tx.QueryRow(ctx, q, a.CustomerID, a.Label, a.Line1, a.Line2, a.City, a.State, a.PostalCode, a.Country))
		if err != nil {
			r.logger.Printf("address repo: batch insert customer_id=%s error=%v", a.CustomerID, err)
			return nil, err
		}
		created = append(created, *inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Address, error) {
	const q = `
SELECT ` + addressCols + `
FROM addresses
WHERE customer_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		r.logger.Printf("address repo: list customer_id=%s error=%v", customerID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Country); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, customerID, addressID string, p Patch) (*domain.Address, error) {
	record := goqu.Record{}
	if p.Label != nil {
		record["label"] = nullIfEmpty(*p.Label)
	}
	if p.Line1 != nil {
		record["line1"] = *p.Line1
	}
	if p.Line2 != nil {
		record["line2"] = nullIfEmpty(*p.Line2)
	}
	if p.City != nil {
		record["city"] = *p.City
	}
	if p.State != nil {
		record["state"] = *p.State
	}
	if p.PostalCode != nil {
		record["postal_code"] = *p.PostalCode
	}
	if p.Country != nil {
		record["country"] = *p.Country
	}
	if len(record) == 0 {
		const q = `
SELECT ` + addressCols + `
FROM addresses
WHERE id = $1 AND customer_id = $2
LIMIT 1
`
		return r.scanAddress(r.pool.QueryRow(ctx, q, addressID, customerID))
	}

	updateSQL, args, err := dialect.Update(addressesTable).Prepared(true).
		Set(record).
		Where(goqu.C("id").Eq(addressID), goqu.C("customer_id").Eq(customerID)).
		Returning(goqu.L(addressCols)).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.scanAddress(r.pool.QueryRow(ctx, updateSQL, args...))
}

func (r *postgresRepo) Delete(ctx context.Context, customerID, addressID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND customer_id = $2`, addressID, customerID)
	if err != nil {
		r.logger.Printf("address repo: delete id=%s customer_id=%s error=%v", addressID, customerID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteByCustomer(ctx context.Context, customerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE customer_id = $1`, customerID)
	if err != nil {
		r.logger.Printf("address repo: delete by customer_id=%s error=%v", customerID, err)
	}
	return err
}

func (r *postgresRepo) CountByCustomer(ctx context.Context, customerIDs []string) (map[string]int, error) {
	ds := dialect.From(addressesTable).Prepared(true).
		Select(goqu.L("customer_id::text"), goqu.COUNT(goqu.Star())).
		GroupBy(goqu.C("customer_id"))
	if len(customerIDs) > 0 {
		ds = ds.Where(goqu.C("customer_id").In(customerIDs))
	}
	countSQL, args, err := ds.ToSQL()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, countSQL, args...)
	if err != nil {
		r.logger.Printf("address repo: counts error=%v", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *postgresRepo) Search(ctx context.Context, q SearchQuery) ([]Match, int, error) {
	countSQL, countArgs, err := buildSearchCount(q)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Printf("address repo: search count error=%v", err)
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, nil
	}

	pageSQL, pageArgs, err := buildSearchPage(q)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, pageSQL, pageArgs...)
	if err != nil {
		r.logger.Printf("address repo: search error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var c domain.Customer
		var a domain.Address
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt,
			&a.ID, &a.CustomerID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Country,
		); err != nil {
			return nil, 0, err
		}
		// Rows arrive ordered by customer id, so each group is contiguous.
		if n := len(matches); n > 0 && matches[n-1].Customer.ID == c.ID {
			matches[n-1].Addresses = append(matches[n-1].Addresses, a)
		} else {
			matches = append(matches, Match{Customer: c, Addresses: []domain.Address{a}})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return matches, total, nil
}

func (r *postgresRepo) scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.Label, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("address repo: scan error=%v", err)
		return nil, err
	}
	return &a, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

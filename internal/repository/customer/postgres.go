package customer

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

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (first_name, last_name, email, phone)
VALUES ($1, $2, $3, $4)
RETURNING id::text, first_name, last_name, email, phone, created_at
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, c.FirstName, c.LastName, c.Email, c.Phone))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `
SELECT id::text, first_name, last_name, email, phone, created_at
FROM customers
WHERE id = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email, excludeID string) (*domain.Customer, error) {
	if excludeID != "" {
		const q = `
SELECT id::text, first_name, last_name, email, phone, created_at
FROM customers
WHERE email = $1 AND id <> $2
LIMIT 1
`
		return r.scanCustomer(r.pool.QueryRow(ctx, q, email, excludeID))
	}
	const q = `
SELECT id::text, first_name, last_name, email, phone, created_at
FROM customers
WHERE email = $1
LIMIT 1
`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) List(ctx context.Context, q ListQuery) ([]domain.Customer, int, error) {
	listSQL, listArgs, err := buildList(q)
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		r.logger.Printf("customer repo: list error=%v", err)
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("customer repo: list rows error=%v", err)
		return nil, 0, err
	}

	countSQL, countArgs, err := buildCount(q)
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		r.logger.Printf("customer repo: count error=%v", err)
		return nil, 0, err
	}
	return result, total, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, p Patch) (*domain.Customer, error) {
	record := goqu.Record{}
	if p.FirstName != nil {
		record["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		record["last_name"] = *p.LastName
	}
	if p.Email != nil {
		record["email"] = *p.Email
	}
	if p.Phone != nil {
		record["phone"] = *p.Phone
	}
	if len(record) == 0 {
		// Nothing to change; an empty patch returns the stored record.
		return r.GetByID(ctx, id)
	}

	updateSQL, args, err := dialect.Update(customersTable).Prepared(true).
		Set(record).
		Where(goqu.C("id").Eq(id)).
		Returning(customerCols...).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.scanCustomer(r.pool.QueryRow(ctx, updateSQL, args...))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("customer repo: delete id=%s error=%v", id, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) DeleteWithAddresses(ctx context.Context, id string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var found string
	err = tx.QueryRow(ctx, `SELECT id::text FROM customers WHERE id = $1 FOR UPDATE`, id).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM addresses WHERE customer_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("customer repo: scan error=%v", err)
		return nil, err
	}
	return &c, nil
}

package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"customerdesk/internal/domain"
)

type CustomerWriter interface {
	Create(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email, excludeID string) (*domain.Customer, error)
}

type AddressWriter interface {
	CreateBatch(ctx context.Context, addrs []domain.Address) ([]domain.Address, error)
}

// CSVImporter reads customer CSV exports and inserts customers with their
// addresses. A row with an email starts a new customer; rows without one are
// continuation rows carrying extra addresses for the customer above.
type CSVImporter struct {
	reader    *csv.Reader
	customers CustomerWriter
	addresses AddressWriter
	logger    *log.Logger
}

func NewCSVImporter(r io.Reader, customers CustomerWriter, addresses AddressWriter, logger *log.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CSVImporter{
		reader:    csvr,
		customers: customers,
		addresses: addresses,
		logger:    logger,
	}
}

type csvRow struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Addresses []domain.Address
}

// Run parses CSV rows and inserts customers grouped by email. Customers whose
// email is already present are skipped, not updated.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, addr := parseRow(record, index)
		if row == nil && addr == nil {
			continue
		}

		if row != nil {
			if current != nil {
				n, err := i.save(ctx, current)
				if err != nil {
					return imported, err
				}
				imported += n
			}
			current = row
			continue
		}

		// Continuation rows belong to the current customer.
		if current != nil {
			current.Addresses = append(current.Addresses, *addr)
		}
	}

	if current != nil {
		n, err := i.save(ctx, current)
		if err != nil {
			return imported, err
		}
		imported += n
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) (int, error) {
	if row.FirstName == "" || row.LastName == "" || row.Email == "" || row.Phone == "" {
		return 0, fmt.Errorf("invalid customer row (missing required fields) for email %q", row.Email)
	}
	if len(row.Addresses) == 0 {
		return 0, fmt.Errorf("customer %q has no address rows", row.Email)
	}
	for _, a := range row.Addresses {
		if a.Line1 == "" || a.City == "" || a.State == "" || a.PostalCode == "" || a.Country == "" {
			return 0, fmt.Errorf("invalid address row for customer %q", row.Email)
		}
	}

	if _, err := i.customers.GetByEmail(ctx, row.Email, ""); err == nil {
		i.logger.Printf("importer: skipping %s, email already present", row.Email)
		return 0, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("lookup customer %q: %w", row.Email, err)
	}

	created, err := i.customers.Create(ctx, domain.Customer{
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Email:     row.Email,
		Phone:     row.Phone,
	})
	if err != nil {
		return 0, fmt.Errorf("create customer %q: %w", row.Email, err)
	}

	batch := make([]domain.Address, 0, len(row.Addresses))
	for _, a := range row.Addresses {
		a.CustomerID = created.ID
		batch = append(batch, a)
	}
	if _, err := i.addresses.CreateBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("insert addresses for %q: %w", row.Email, err)
	}
	return 1, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, *domain.Address) {
	email := pick(record, index, "email")

	addr := domain.Address{
		Label:      pick(record, index, "label"),
		Line1:      pick(record, index, "line1"),
		Line2:      pick(record, index, "line2"),
		City:       pick(record, index, "city"),
		State:      pick(record, index, "state"),
		PostalCode: pick(record, index, "postalCode"),
		Country:    pick(record, index, "country"),
	}

	if email == "" {
		if addr.Line1 == "" {
			return nil, nil
		}
		return nil, &addr
	}

	row := &csvRow{
		FirstName: pick(record, index, "firstName"),
		LastName:  pick(record, index, "lastName"),
		Email:     email,
		Phone:     pick(record, index, "phone"),
	}
	if addr.Line1 != "" {
		row.Addresses = []domain.Address{addr}
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

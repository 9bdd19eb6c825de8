package customer

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"

	"customerdesk/internal/domain"
)

const customersTable = "customers"

var dialect = goqu.Dialect("postgres")

var customerCols = []interface{}{
	goqu.L("id::text"),
	goqu.C("first_name"),
	goqu.C("last_name"),
	goqu.C("email"),
	goqu.C("phone"),
	goqu.C("created_at"),
}

// sortColumns maps client sort keys to columns. Unknown keys are skipped.
var sortColumns = map[string]string{
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
	"phone":     "phone",
	"createdAt": "created_at",
	"id":        "id",
}

// buildList renders the paged listing query for a ListQuery.
func buildList(q ListQuery) (string, []interface{}, error) {
	ds := dialect.From(customersTable).Prepared(true).Select(customerCols...)
	if f := searchFilter(q.Search); f != nil {
		ds = ds.Where(f)
	}
	ds = ds.Order(parseSort(q.Sort)...).Offset(uint(q.Offset)).Limit(uint(q.Limit))
	return ds.ToSQL()
}

// buildCount renders the total count for the same filter, ignoring paging.
func buildCount(q ListQuery) (string, []interface{}, error) {
	ds := dialect.From(customersTable).Prepared(true).Select(goqu.COUNT(goqu.Star()))
	if f := searchFilter(q.Search); f != nil {
		ds = ds.Where(f)
	}
	return ds.ToSQL()
}

// searchFilter builds the free-text filter: case-insensitive substring match
// on first name, last name and email, OR a digit-substring match against the
// digit projection of the phone when the term contains digits. Returns nil
// when the term is blank.
func searchFilter(search string) goqu.Expression {
	term := strings.TrimSpace(search)
	if term == "" {
		return nil
	}
	pattern := "%" + escapeLike(term) + "%"
	ors := []goqu.Expression{
		goqu.C("first_name").ILike(pattern),
		goqu.C("last_name").ILike(pattern),
		goqu.C("email").ILike(pattern),
	}
	if d := domain.DigitsOnly(term); d != "" {
		ors = append(ors, goqu.L("regexp_replace(phone, '[^0-9]', '', 'g') LIKE ?", "%"+d+"%"))
	}
	return goqu.Or(ors...)
}

// parseSort turns a spec like "firstName,-createdAt" into an ordered list of
// order-by expressions. Falls back to firstName, lastName ascending.
func parseSort(spec string) []exp.OrderedExpression {
	var out []exp.OrderedExpression
	for _, field := range strings.Split(spec, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		col, ok := sortColumns[field]
		if !ok {
			continue
		}
		if desc {
			out = append(out, goqu.C(col).Desc())
		} else {
			out = append(out, goqu.C(col).Asc())
		}
	}
	if len(out) == 0 {
		out = append(out, goqu.C("first_name").Asc(), goqu.C("last_name").Asc())
	}
	return out
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

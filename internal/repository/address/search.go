package address

import (
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"customerdesk/internal/domain"
)

const addressesTable = "addresses"

var dialect = goqu.Dialect("postgres")

// searchConditions translates the provided criteria into filter expressions:
// prefix match on city/state, digit-substring match on postal code.
func searchConditions(q SearchQuery) []goqu.Expression {
	var conds []goqu.Expression
	if city := strings.TrimSpace(q.City); city != "" {
		conds = append(conds, goqu.C("city").ILike(escapeLike(city)+"%"))
	}
	if state := strings.TrimSpace(q.State); state != "" {
		conds = append(conds, goqu.C("state").ILike(escapeLike(state)+"%"))
	}
	if pin := domain.DigitsOnly(q.Pincode); pin != "" {
		conds = append(conds, goqu.L("regexp_replace(postal_code, '[^0-9]', '', 'g') LIKE ?", "%"+pin+"%"))
	}
	return conds
}

// buildSearchCount renders the distinct-owner count for the criteria.
func buildSearchCount(q SearchQuery) (string, []interface{}, error) {
	return dialect.From(addressesTable).Prepared(true).
		Select(goqu.L("COUNT(DISTINCT customer_id)")).
		Where(searchConditions(q)...).
		ToSQL()
}

// buildSearchPage renders the joined page query: addresses matching the
// criteria whose owner falls into the requested page of distinct customers,
// ordered so that rows for one customer are contiguous.
func buildSearchPage(q SearchQuery) (string, []interface{}, error) {
	conds := searchConditions(q)

	owners := dialect.From(addressesTable).
		Select(goqu.C("customer_id")).Distinct().
		Where(conds...).
		Order(goqu.C("customer_id").Asc()).
		Offset(uint(q.Offset)).Limit(uint(q.Limit))

	pageConds := append(searchConditions(q), goqu.I("a.customer_id").In(owners))

	return dialect.From(goqu.T(addressesTable).As("a")).Prepared(true).
		Join(goqu.T("customers").As("c"), goqu.On(goqu.L("c.id = a.customer_id"))).
		Select(
			goqu.L("c.id::text"),
			goqu.I("c.first_name"),
			goqu.I("c.last_name"),
			goqu.I("c.email"),
			goqu.I("c.phone"),
			goqu.I("c.created_at"),
			goqu.L("a.id::text"),
			goqu.L("a.customer_id::text"),
			goqu.L("COALESCE(a.label, '')"),
			goqu.I("a.line1"),
			goqu.L("COALESCE(a.line2, '')"),
			goqu.I("a.city"),
			goqu.I("a.state"),
			goqu.I("a.postal_code"),
			goqu.I("a.country"),
		).
		Where(pageConds...).
		Order(goqu.I("a.customer_id").Asc(), goqu.I("a.id").Asc()).
		ToSQL()
}

// escapeLike neutralizes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

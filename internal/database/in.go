package database

import "github.com/jmoiron/sqlx"

// In expands a query with IN (?) clauses and rebinds it to postgres $n
// placeholders.
func In(query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return sqlx.Rebind(sqlx.DOLLAR, q), a, nil
}

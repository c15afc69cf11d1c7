package telemetry

import (
	"database/sql"
	"net/url"
	"strings"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// OpenDB opens a traced database handle whose connections all use schema
// as their search_path.
func OpenDB(driverName, dsn, schema string) (*sql.DB, error) {
	if schema != "" {
		var err error
		dsn, err = WithSearchPath(dsn, schema)
		if err != nil {
			return nil, err
		}
	}

	return otelsql.Open(driverName, dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
}

// WithSearchPath adds a search_path runtime parameter to a postgres DSN in
// either URL or key=value form.
func WithSearchPath(dsn, schema string) (string, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", err
		}
		q := u.Query()
		q.Set("search_path", schema)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}
	return strings.TrimSpace(dsn+" search_path="+schema), nil
}

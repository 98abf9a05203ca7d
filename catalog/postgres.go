package catalog

import (
	"context"

	// Registers the "pgx" database/sql driver used by ConnectPostgres below.
	_ "github.com/jackc/pgx/v5/stdlib"

	gatewaysql "github.com/thefixer3x/onasis-gateway-sub003/sql"
	gatewaysqlx "github.com/thefixer3x/onasis-gateway-sub003/sqlx"
)

const postgresDBName = "onasis_gateway"

// ConnectPostgres opens and verifies a Postgres connection backing DBLoader
// and the VAL vendor-override table. pgx registers the raw database/sql
// driver; gatewaysql wraps it with OpenTelemetry span/metric instrumentation
// at the driver level, and gatewaysqlx layers its own sqlx-method tracing on
// top, so both the statement-level and sqlx-call-level spans show up in
// traces (SPEC_FULL.md section 10: a concrete database/sql driver
// underneath the teacher's sql package).
func ConnectPostgres(ctx context.Context, dsn string) (*gatewaysqlx.DB, error) {
	sqlDB, err := gatewaysql.Open("pgx", dsn,
		gatewaysql.WithDBSystem("postgresql"),
		gatewaysql.WithDBName(postgresDBName),
	)
	if err != nil {
		return nil, err
	}

	db := gatewaysqlx.NewDB(sqlDB, "pgx")
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

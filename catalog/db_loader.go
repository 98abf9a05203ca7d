package catalog

import (
	"context"

	gatewaysqlx "github.com/thefixer3x/onasis-gateway-sub003/sqlx"
)

// DBLoader loads the Service Catalog from a relational table, used when the
// deployment keeps its adapter catalog in Postgres instead of a JSON file
// (spec.md section 6: a DB-backed alternative source for the catalog).
type DBLoader struct {
	db *gatewaysqlx.DB
}

// NewDBLoader wraps an already-connected instrumented DB handle.
func NewDBLoader(db *gatewaysqlx.DB) *DBLoader {
	return &DBLoader{db: db}
}

const selectCatalogQuery = `
SELECT id, type, enabled, COALESCE(adapter_path, '') AS adapter_path, COALESCE(tool_count, 0) AS tool_count
FROM adapter_catalog
ORDER BY id
`

// Load fetches every catalog row.
func (l *DBLoader) Load(ctx context.Context) ([]AdapterDescriptor, error) {
	var descriptors []AdapterDescriptor
	if err := l.db.SelectContext(ctx, &descriptors, selectCatalogQuery); err != nil {
		return nil, err
	}
	return descriptors, nil
}

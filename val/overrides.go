package val

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"

	gatewaysqlx "github.com/thefixer3x/onasis-gateway-sub003/sqlx"
)

// overrideCacheTTL bounds how stale a cached vendor override can be before
// RedisOverrideCache re-checks the backing source.
const overrideCacheTTL = 30 * time.Second

// OverrideSource resolves a deployment-configured default vendor for a
// category, consulted when a call arrives with no explicit vendor
// preference. Nil means "no override configured" and Execute falls back to
// the category's static VendorOrder[0] (spec.md 4.4 step 4).
type OverrideSource interface {
	PreferredVendor(ctx context.Context, category string) (vendor string, ok bool, err error)
}

// SQLXOverrideStore reads vendor-preference overrides from a relational
// table, for deployments that want to flip a category's default vendor
// (e.g. failing over from Paystack to Flutterwave) without a redeploy
// (SPEC_FULL.md section 10: "val package's vendor-preference override
// table").
type SQLXOverrideStore struct {
	db *gatewaysqlx.DB
}

// NewSQLXOverrideStore wraps an already-connected instrumented DB handle.
func NewSQLXOverrideStore(db *gatewaysqlx.DB) *SQLXOverrideStore {
	return &SQLXOverrideStore{db: db}
}

const selectVendorOverrideQuery = `
SELECT vendor_id FROM vendor_overrides WHERE category = $1
`

// PreferredVendor looks up the override row for category. A missing row is
// not an error — it means no override is configured.
func (s *SQLXOverrideStore) PreferredVendor(ctx context.Context, category string) (string, bool, error) {
	var vendorID string
	err := s.db.GetContext(ctx, &vendorID, selectVendorOverrideQuery, category)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return vendorID, true, nil
}

// RedisOverrideCache wraps an OverrideSource with a short-TTL Redis cache,
// so a hot category's override lookup doesn't hit the database on every
// call (SPEC_FULL.md section 10: "VAL vendor-preference cache").
type RedisOverrideCache struct {
	source OverrideSource
	client redis.UniversalClient
	prefix string
}

// NewRedisOverrideCache builds a cache in front of source. keyPrefix
// defaults to "val:vendor-override:" when empty.
func NewRedisOverrideCache(source OverrideSource, client redis.UniversalClient, keyPrefix string) *RedisOverrideCache {
	if keyPrefix == "" {
		keyPrefix = "val:vendor-override:"
	}
	return &RedisOverrideCache{source: source, client: client, prefix: keyPrefix}
}

// sentinelNoOverride is cached in place of an empty string so a cache hit
// can distinguish "no override, checked recently" from "cache miss".
const sentinelNoOverride = "-"

func (c *RedisOverrideCache) PreferredVendor(ctx context.Context, category string) (string, bool, error) {
	key := c.prefix + category
	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		if cached == sentinelNoOverride {
			return "", false, nil
		}
		return cached, true, nil
	}
	if err != redis.Nil {
		return c.source.PreferredVendor(ctx, category)
	}

	vendorID, ok, err := c.source.PreferredVendor(ctx, category)
	if err != nil {
		return "", false, err
	}

	store := sentinelNoOverride
	if ok {
		store = vendorID
	}
	c.client.Set(ctx, key, store, overrideCacheTTL)
	return vendorID, ok, nil
}

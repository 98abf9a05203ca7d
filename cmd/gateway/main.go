// Command gateway is the composition root: it reads configuration from the
// environment, constructs every adapter, VAL category, and ambient
// component, and serves the router built by package gateway (spec.md
// section 6 "Configuration").
package main

import (
	"context"
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/thefixer3x/onasis-gateway-sub003/adapter"
	"github.com/thefixer3x/onasis-gateway-sub003/adapters/mock"
	"github.com/thefixer3x/onasis-gateway-sub003/adapters/supabase"
	"github.com/thefixer3x/onasis-gateway-sub003/authbridge"
	"github.com/thefixer3x/onasis-gateway-sub003/catalog"
	"github.com/thefixer3x/onasis-gateway-sub003/discovery"
	"github.com/thefixer3x/onasis-gateway-sub003/gateway"
	"github.com/thefixer3x/onasis-gateway-sub003/httpclient"
	"github.com/thefixer3x/onasis-gateway-sub003/httpserver"
	gatewaysqlx "github.com/thefixer3x/onasis-gateway-sub003/sqlx"
	"github.com/thefixer3x/onasis-gateway-sub003/val"
	"github.com/thefixer3x/onasis-gateway-sub003/vendors/banking"
	"github.com/thefixer3x/onasis-gateway-sub003/vendors/payment"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Logger = logger

	ctx := context.Background()

	catalogDB := connectCatalogDatabase(ctx, logger)

	adapterRegistry := adapter.NewRegistry()
	registerAdapters(ctx, adapterRegistry, catalogDB, logger)

	valRegistry := val.NewRegistry(adapterRegistry)
	callbackURL := os.Getenv("PAYMENT_CALLBACK_URL")
	if err := valRegistry.RegisterCategory(payment.BuildCategory(callbackURL)); err != nil {
		logger.Fatal().Err(err).Msg("registering payment category")
	}
	if err := valRegistry.RegisterCategory(banking.BuildCategory()); err != nil {
		logger.Fatal().Err(err).Msg("registering banking category")
	}

	if overrides := buildOverrideSource(catalogDB); overrides != nil {
		valRegistry.SetOverrideSource(overrides)
	}

	intentCorpus := buildIntentCorpus(valRegistry)
	healthTTL := envDuration("HEALTH_CACHE_TTL", 30*time.Second)
	discoveryLayer := discovery.New(valRegistry, adapterRegistry, intentCorpus, healthTTL)

	authBridge := authbridge.New(authbridge.Config{
		BaseURL:      os.Getenv("AUTH_SERVICE_URL"),
		Timeout:      envDuration("AUTH_TIMEOUT", 8*time.Second),
		MonitorToken: os.Getenv("MONITOR_TOKEN"),
		MonitorOps:   strings.Split(os.Getenv("MONITOR_OPS"), ","),
	})

	routerCfg := gateway.Config{
		Registry:        adapterRegistry,
		Discovery:       discoveryLayer,
		LazyMode:        envBool("LAZY_MODE", true),
		Auth:            authBridge,
		Version:         gateway.VersionInfo{Name: "onasis-gateway", Version: envOr("GATEWAY_VERSION", "dev")},
		CORSPolicy:      buildCORSPolicy(),
		SupabaseBaseURL: resolveSupabaseURL(),
		AIPrimaryURL:    os.Getenv("AI_PRIMARY_URL"),
		AIFallbackURL:   os.Getenv("AI_FALLBACK_URL"),
		ServiceBaseURLs: buildServiceBaseURLs(),
		APIServices:     loadAPIServiceIndex(logger),
		Logger:          logger,
		PprofUsername:   os.Getenv("PPROF_USERNAME"),
		PprofPassword:   os.Getenv("PPROF_PASSWORD"),
	}
	router := gateway.NewRouter(routerCfg)

	serverCfg := httpserver.DefaultConfig()
	serverCfg.Addr = ":" + envOr("PORT", "8080")
	serverCfg.ServiceName = "onasis-gateway"

	server := httpserver.New(
		httpserver.WithConfig(serverCfg),
		httpserver.WithHandler(router),
		httpserver.WithLogger(logger),
	)

	logger.Info().Str("addr", serverCfg.Addr).Bool("lazyMode", routerCfg.LazyMode).Msg("starting gateway")
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal().Err(err).Msg("gateway stopped")
	}
}

// connectCatalogDatabase opens the optional Postgres connection backing the
// DB-based Service Catalog loader and the VAL vendor-override table
// (SPEC_FULL.md section 10). Returns nil when CATALOG_DATABASE_URL is unset
// or the connection fails — every caller treats a nil DB as "feature off".
func connectCatalogDatabase(ctx context.Context, logger zerolog.Logger) *gatewaysqlx.DB {
	dsn := os.Getenv("CATALOG_DATABASE_URL")
	if dsn == "" {
		return nil
	}
	db, err := catalog.ConnectPostgres(ctx, dsn)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to catalog database")
		return nil
	}
	return db
}

// registerAdapters builds every real vendor adapter from environment
// credentials, registers mock adapters for any catalog entry of type
// "mock", initializes them concurrently, and marks the registry ready
// (spec.md 4.6 "Startup sequence"; SPEC_FULL.md's request-coalescing /
// errgroup wiring note).
func registerAdapters(ctx context.Context, registry *adapter.Registry, catalogDB *gatewaysqlx.DB, logger zerolog.Logger) {
	group, gctx := errgroup.WithContext(ctx)

	paystack := payment.NewPaystack(payment.PaystackConfig{SecretKey: os.Getenv("PAYSTACK_SECRET_KEY")})
	registry.Register(paystack)
	group.Go(func() error { return paystack.Initialize(gctx) })

	flutterwave := payment.NewFlutterwave(payment.FlutterwaveConfig{SecretKey: os.Getenv("FLUTTERWAVE_SECRET_KEY")})
	registry.Register(flutterwave)
	group.Go(func() error { return flutterwave.Initialize(gctx) })

	bap := banking.NewBAP(banking.BAPConfig{
		HMACUser:   os.Getenv("BAP_HMAC_USER"),
		HMACSecret: os.Getenv("BAP_HMAC_SECRET"),
		BaseURL:    os.Getenv("BAP_BASE_URL"),
	})
	registry.Register(bap)
	group.Go(func() error { return bap.Initialize(gctx) })

	if supabaseURL := resolveSupabaseURL(); supabaseURL != "" {
		probe := httpclient.New(httpclient.WithBaseURL(supabaseURL), httpclient.WithServiceName("supabase-health"))
		sb := supabase.New(supabase.Config{
			ID:          "supabase",
			BaseURL:     supabaseURL,
			Source:      supabaseDescriptorSource(supabaseURL),
			HealthProbe: probe,
		})
		registry.Register(sb)
		group.Go(func() error { return sb.Initialize(gctx) })
	}

	for _, desc := range loadMockDescriptors(ctx, catalogDB, logger) {
		registry.RegisterMock(mock.New(desc))
	}

	if err := group.Wait(); err != nil {
		logger.Warn().Err(err).Msg("one or more adapters failed to initialize; continuing with degraded set")
	}
	registry.MarkReady()
}

// supabaseDescriptorSource fetches the route-description document the
// Supabase adapter rebuilds its tool list from. Coalesce collapses
// concurrent refreshes triggered by simultaneous stale-cache tool calls
// into a single upstream fetch, since the document is read-only and every
// caller wants the same bytes (SPEC_FULL.md section 11).
func supabaseDescriptorSource(baseURL string) supabase.DescriptorSource {
	client := httpclient.New(httpclient.WithBaseURL(baseURL), httpclient.WithServiceName("supabase-routes"))
	return func(ctx context.Context) (string, error) {
		resp, err := client.Request("fetch-routes").Coalesce().Get(ctx, "/functions/v1/_routes")
		if err != nil {
			return "", err
		}
		body, err := resp.Body()
		if err != nil {
			return "", err
		}
		return string(body), nil
	}
}

// loadMockDescriptors reads the Service Catalog (JSON file; when that fails,
// the catalog database if one is connected, then a scan of SERVICES_DIR if
// set) and turns every "mock" entry into a mock adapter
// descriptor (spec.md section 6 "Configuration file").
func loadMockDescriptors(ctx context.Context, catalogDB *gatewaysqlx.DB, logger zerolog.Logger) []mock.Descriptor {
	path := envOr("CATALOG_PATH", "catalog.json")
	descriptors, err := catalog.LoadFromFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to load catalog file")
		}
		if catalogDB != nil {
			descriptors, err = catalog.NewDBLoader(catalogDB).Load(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("failed to load catalog from database")
			}
		}
		if (err != nil || len(descriptors) == 0) && os.Getenv("SERVICES_DIR") != "" {
			dir := os.Getenv("SERVICES_DIR")
			descriptors, err = catalog.ScanServicesDir(dir)
			if err != nil {
				logger.Warn().Err(err).Str("dir", dir).Msg("failed to scan services directory")
			}
		}
	}

	var mocks []mock.Descriptor
	for _, d := range descriptors {
		if d.Type != catalog.TypeMock || !d.Enabled {
			continue
		}
		mocks = append(mocks, mock.Descriptor{ID: d.ID, Name: d.ID, Version: "v1", Category: "mock"})
	}
	return mocks
}

// buildOverrideSource wires the VAL vendor-preference override table
// (SPEC_FULL.md section 10) when a catalog database is configured,
// additionally wrapping it in a Redis cache when a Redis address is given;
// a nil database means the gateway runs without runtime vendor overrides,
// falling back to each category's static VendorOrder.
func buildOverrideSource(catalogDB *gatewaysqlx.DB) val.OverrideSource {
	if catalogDB == nil {
		return nil
	}
	store := val.NewSQLXOverrideStore(catalogDB)

	redisAddr := os.Getenv("OVERRIDE_CACHE_REDIS_ADDR")
	if redisAddr == "" {
		return store
	}
	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{redisAddr}})
	return val.NewRedisOverrideCache(store, client, "")
}

func loadAPIServiceIndex(logger zerolog.Logger) []catalog.APIService {
	path := envOr("API_SERVICE_INDEX_PATH", "services.json")
	services, err := catalog.LoadAPIServiceIndexFromFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", path).Msg("failed to load API service index")
		}
		return nil
	}
	return services
}

// buildIntentCorpus flattens every registered VAL category and operation
// into the free-text descriptions gateway-intent scores against (spec.md
// 4.5 "gateway-intent").
func buildIntentCorpus(registry *val.Registry) []discovery.CategoryDescription {
	var corpus []discovery.CategoryDescription
	for _, cat := range registry.ListCategories() {
		for op := range cat.Operations {
			corpus = append(corpus, discovery.CategoryDescription{
				Category:    cat.Name,
				Operation:   op,
				Description: cat.Name + " " + op,
			})
		}
	}
	return corpus
}

func buildServiceBaseURLs() map[string]string {
	urls := map[string]string{}
	if v := resolveSupabaseURL(); v != "" {
		urls["supabase"] = v
	}
	if v := os.Getenv("AI_PRIMARY_URL"); v != "" {
		urls["ai"] = v
	}
	return urls
}

func buildCORSPolicy() gateway.CORSPolicy {
	policy := gateway.CORSPolicy{AllowCredentials: true}
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if strings.HasPrefix(origin, "*.") {
			policy.SuffixOrigins = append(policy.SuffixOrigins, strings.TrimPrefix(origin, "*"))
			continue
		}
		policy.ExactOrigins = append(policy.ExactOrigins, origin)
	}
	if envBool("ALLOW_LOCALHOST", true) {
		policy.AllowLocalhost = true
	}
	return policy
}

// resolveSupabaseURL honors SUPABASE_URL when set; otherwise it derives the
// project URL from the "ref" claim of the anon/service JWT in SUPABASE_KEY
// (spec.md section 6: "derives the Supabase URL from a JWT ref claim if not
// explicitly set"). The claim is read without signature verification —
// SUPABASE_KEY is an operator-supplied credential, not untrusted input, and
// this only defaults a config value, not an authorization decision.
func resolveSupabaseURL() string {
	if explicit := os.Getenv("SUPABASE_URL"); explicit != "" {
		return explicit
	}
	ref := jwtRefClaim(os.Getenv("SUPABASE_KEY"))
	if ref == "" {
		return ""
	}
	return "https://" + ref + ".supabase.co"
}

func jwtRefClaim(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var claims struct {
		Ref string `json:"ref"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return ""
	}
	return claims.Ref
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

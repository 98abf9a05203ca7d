// Package catalog loads the Service Catalog: the set of adapter descriptors
// the Gateway Core constructs at startup (spec.md section 6, "Configuration
// file").
package catalog

// AuthDescriptor describes how an adapter authenticates to its upstream,
// mirroring httpclient.AuthConfig's scheme vocabulary without depending on
// httpclient directly (the catalog is a data document, not wiring code).
type AuthDescriptor struct {
	Scheme string `json:"scheme" db:"scheme"`
}

// AdapterDescriptor is one entry in the Service Catalog.
type AdapterDescriptor struct {
	ID          string          `json:"id" db:"id"`
	Type        string          `json:"type" db:"type"` // "real" | "mock" | a specific factory id
	Enabled     bool            `json:"enabled" db:"enabled"`
	AdapterPath string          `json:"adapterPath,omitempty" db:"adapter_path"`
	ToolCount   int             `json:"toolCount,omitempty" db:"tool_count"`
	Auth        *AuthDescriptor `json:"auth,omitempty" db:"-"`
}

const (
	TypeReal = "real"
	TypeMock = "mock"
)

// APIService is one entry in the optional API-service index (spec.md
// section 3 "Service Catalog ... and an optional API-service index"; section
// 6 "GET /api/services, GET /api/services/:name, ALL /api/services/:name/*").
// It is distinct from AdapterDescriptor: an AdapterDescriptor backs a
// tools/call adapter, while an APIService backs a transparent REST proxy
// route under /api/services.
type APIService struct {
	Name        string `json:"name" db:"name"`
	BaseURL     string `json:"baseUrl" db:"base_url"`
	Description string `json:"description,omitempty" db:"description"`
}

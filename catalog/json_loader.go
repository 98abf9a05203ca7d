package catalog

import (
	"os"

	json "github.com/goccy/go-json"
)

// LoadFromFile reads a Service Catalog JSON document from path. A missing
// file is returned as the os.ReadFile error — callers that want the "scan the
// services directory" fallback (spec.md section 6) check os.IsNotExist themselves.
func LoadFromFile(path string) ([]AdapterDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var descriptors []AdapterDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// LoadAPIServiceIndexFromFile reads the optional API-service index document
// (spec.md section 3 "an optional API-service index") backing the
// /api/services proxy routes. As with LoadFromFile, a missing file is
// returned as an error that satisfies os.IsNotExist.
func LoadAPIServiceIndexFromFile(path string) ([]APIService, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var services []APIService
	if err := json.Unmarshal(data, &services); err != nil {
		return nil, err
	}
	return services, nil
}

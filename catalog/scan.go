package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// ScanServicesDir builds a best-effort catalog by scanning a services
// directory for adapter packages, used when the JSON catalog file is absent
// (spec.md section 6). Every immediate subdirectory becomes a "real"
// adapter descriptor named after the directory; callers that want mocks or
// disabled entries still need the JSON document.
func ScanServicesDir(dir string) ([]AdapterDescriptor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var descriptors []AdapterDescriptor
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		descriptors = append(descriptors, AdapterDescriptor{
			ID:          entry.Name(),
			Type:        TypeReal,
			Enabled:     true,
			AdapterPath: filepath.Join(dir, entry.Name()),
		})
	}
	return descriptors, nil
}

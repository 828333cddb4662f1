package sink

import (
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// TestOnlyFactoryImportsSinkDrivers ensures that only the evgen factory layer
// wires concrete sink backends. Other packages must depend on the sink.Store
// interface instead of importing a driver directly.
func TestOnlyFactoryImportsSinkDrivers(t *testing.T) {
	driverPrefix := "nucascade/internal/sink/"
	allowed := []string{
		"nucascade/internal/sink",
		"nucascade/internal/evgen",
	}

	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports, Tests: true}
	pkgs, err := packages.Load(cfg, "nucascade/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		if importerAllowed(pkg.PkgPath, allowed) {
			continue
		}
		for importPath := range pkg.Imports {
			if strings.HasPrefix(importPath, driverPrefix) {
				pos := filepath.Join(pkg.PkgPath, "...")
				seen[pos+": "+importPath] = struct{}{}
			}
		}
	}

	if len(seen) > 0 {
		violations := make([]string, 0, len(seen))
		for v := range seen {
			violations = append(violations, v)
		}
		sort.Strings(violations)
		for _, v := range violations {
			t.Errorf("forbidden import of sink driver package: %s", v)
		}
		t.Fatalf("found %d forbidden imports of sink driver packages", len(violations))
	}
}

func importerAllowed(pkgPath string, allowed []string) bool {
	for _, a := range allowed {
		if pkgPath == a || strings.HasPrefix(pkgPath, a+"/") {
			return true
		}
	}
	return false
}

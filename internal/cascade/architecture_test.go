package cascade

import (
	"testing"

	"nucascade/testutil"
)

// TestCascadeBoundaryGuards enforces that the de-excitation walk stays a pure
// sampling layer: no logging on the per-event path and no direct dependence
// on a storage backend.
func TestCascadeBoundaryGuards(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.LoggingImportForbidden,
		"cascade steps run per event; logging belongs to the service layer")
	testutil.AssertNoDirectImports(t, ".", testutil.DriverImportForbidden,
		"cascade consumes decay schemes through values, not backends")
}

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/goleak"

	"nucascade/internal/config"
	"nucascade/internal/logging"
	structsqlite "nucascade/internal/structure/sqlite"
	"nucascade/pkg/nucleus"
)

func TestMain(m *testing.M) {
	logging.Init(slog.LevelError, "text", io.Discard)
	goleak.VerifyTestMain(m)
}

// testCmd returns a command whose output is captured in the buffer.
func testCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}

// withConfig installs cfg as the effective root configuration for one test.
func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := rootCfg
	rootCfg = cfg
	t.Cleanup(func() { rootCfg = old })
}

// memConfig is the default configuration redirected to in-memory backends.
func memConfig() config.Config {
	cfg := config.Default()
	cfg.Run = config.Run{Events: 3, Seed: 11, Shards: 1}
	cfg.Source = config.Source{Type: config.SourceMono, Energy: 20}
	cfg.Sink = config.Sink{Driver: "memory"}
	cfg.Archive = config.Archive{Driver: "memory"}
	cfg.Logging = config.Logging{Level: "error", Format: "text"}
	cfg.Metrics = config.Metrics{}
	return cfg
}

func TestRunCmdGeneratesEvents(t *testing.T) {
	withConfig(t, memConfig())
	runFlags.events = 4
	runFlags.shards = 2
	t.Cleanup(func() { runFlags.events, runFlags.shards = 0, 0 })

	cmd, buf := testCmd()
	if err := runRun(cmd, nil); err != nil {
		t.Fatalf("run command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Events written to runs/") {
		t.Fatalf("expected sink key in output, got:\n%s", out)
	}
	if !strings.Contains(out, "40Ar") || !strings.Contains(out, "mono E=20") {
		t.Fatalf("expected run summary fields, got:\n%s", out)
	}
}

func TestRunCmdValidatesConfig(t *testing.T) {
	cfg := memConfig()
	cfg.Source.Energy = 0
	withConfig(t, cfg)

	cmd, _ := testCmd()
	err := runRun(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "energy") {
		t.Fatalf("expected energy validation error, got %v", err)
	}
}

func TestLevelsCmdDefaultsToResidue(t *testing.T) {
	withConfig(t, memConfig())

	cmd, buf := testCmd()
	if err := runLevels(cmd, nil); err != nil {
		t.Fatalf("levels command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "40K: 10 tabulated levels") {
		t.Fatalf("expected residue scheme summary, got:\n%s", out)
	}
	for _, want := range []string{"0.0298", "4.3839", "EX (MEV)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table, got:\n%s", want, out)
		}
	}
}

func TestLevelsCmdExplicitNuclideMarkdown(t *testing.T) {
	withConfig(t, memConfig())
	levelsFlags.z, levelsFlags.a, levelsFlags.markdown = 18, 39, true
	t.Cleanup(func() { levelsFlags.z, levelsFlags.a, levelsFlags.markdown = 0, 0, false })

	cmd, buf := testCmd()
	if err := runLevels(cmd, nil); err != nil {
		t.Fatalf("levels command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "39Ar: 3 tabulated levels") {
		t.Fatalf("expected explicit nuclide summary, got:\n%s", out)
	}
	if !strings.Contains(out, "|") || !strings.Contains(out, "---") {
		t.Fatalf("expected markdown table, got:\n%s", out)
	}
	if !strings.Contains(out, "7/2-") {
		t.Fatalf("expected half-integer spin-parity, got:\n%s", out)
	}
}

func TestLevelsCmdUnknownNuclide(t *testing.T) {
	withConfig(t, memConfig())
	levelsFlags.z, levelsFlags.a = 19, 41
	t.Cleanup(func() { levelsFlags.z, levelsFlags.a = 0, 0 })

	cmd, _ := testCmd()
	err := runLevels(cmd, nil)
	if err == nil || !strings.Contains(err.Error(), "41K") {
		t.Fatalf("expected missing scheme error for 41K, got %v", err)
	}
}

func TestXsecCmdTabulatesCrossSection(t *testing.T) {
	withConfig(t, memConfig())
	oldEnergies := xsecFlags.energies
	xsecFlags.energies = []float64{20}
	t.Cleanup(func() { xsecFlags.energies = oldEnergies })

	cmd, buf := testCmd()
	if err := runXsec(cmd, nil); err != nil {
		t.Fatalf("xsec command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "νe + 40Ar") || !strings.Contains(out, "threshold") {
		t.Fatalf("expected reaction header, got:\n%s", out)
	}
	if !strings.Contains(out, "20.0000") {
		t.Fatalf("expected tabulated energy row, got:\n%s", out)
	}
}

func TestValidateCmdOK(t *testing.T) {
	withConfig(t, memConfig())

	cmd, buf := testCmd()
	if err := runValidate(cmd, nil); err != nil {
		t.Fatalf("validate command: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "structure data OK: 14 decay schemes, 1 reaction targets") {
		t.Fatalf("expected clean validation summary, got:\n%s", out)
	}
}

func TestValidateCmdReportsBlockingViolations(t *testing.T) {
	badDataset := `nuclides:
  - z: 19
    a: 40
    levels:
      - energy: 0.0
        two_j: 8
        parity: "-"
      - energy: 1.0
        two_j: 6
        parity: "-"
        branches:
          - target: 0
            probability: 0.5
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(badDataset), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := memConfig()
	cfg.Structure.Path = path
	withConfig(t, cfg)

	cmd, buf := testCmd()
	err := runValidate(cmd, nil)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	var rve nucleus.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "branch-probability-sum") || !strings.Contains(out, "block") {
		t.Fatalf("expected blocking violation in table, got:\n%s", out)
	}
}

func TestImportCmdWritesDatabase(t *testing.T) {
	old := importFlags
	importFlags.dataset = ""
	importFlags.out = filepath.Join(t.TempDir(), "structure.db")
	t.Cleanup(func() { importFlags = old })

	cmd, buf := testCmd()
	if err := runImport(cmd, nil); err != nil {
		t.Fatalf("import command: %v", err)
	}
	if !strings.Contains(buf.String(), "Imported 14 decay schemes and 1 reaction targets") {
		t.Fatalf("expected import summary, got:\n%s", buf.String())
	}

	st, err := structsqlite.Open(importFlags.out)
	if err != nil {
		t.Fatalf("reopen imported database: %v", err)
	}
	defer st.Close()
	targets, err := st.Targets(context.Background())
	if err != nil {
		t.Fatalf("list targets: %v", err)
	}
	if len(targets) != 1 || targets[0] != (nucleus.Nuclide{Z: 18, A: 40}) {
		t.Fatalf("expected imported 40Ar target, got %v", targets)
	}
}

func TestSetupAppliesFlagOverrides(t *testing.T) {
	old, oldCfg := rootFlags, rootCfg
	t.Cleanup(func() {
		rootFlags, rootCfg = old, oldCfg
		logging.Init(slog.LevelError, "text", io.Discard)
	})

	rootFlags.configPath = ""
	rootFlags.logLevel = "debug"
	rootFlags.logFormat = "json"
	if err := setup(nil, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if rootCfg.Logging.Level != "debug" || rootCfg.Logging.Format != "json" {
		t.Fatalf("expected flag overrides applied, got %+v", rootCfg.Logging)
	}

	rootFlags.logLevel = "loud"
	if err := setup(nil, nil); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestSetupLoadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := os.WriteFile(path, []byte("run:\n  events: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	old, oldCfg := rootFlags, rootCfg
	t.Cleanup(func() {
		rootFlags, rootCfg = old, oldCfg
		logging.Init(slog.LevelError, "text", io.Discard)
	})

	rootFlags.configPath = path
	rootFlags.logLevel = ""
	rootFlags.logFormat = ""
	if err := setup(nil, nil); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if rootCfg.Run.Events != 7 {
		t.Fatalf("expected events from file, got %d", rootCfg.Run.Events)
	}
	if rootCfg.Target != (nucleus.Nuclide{Z: 18, A: 40}) {
		t.Fatalf("expected default target retained, got %v", rootCfg.Target)
	}

	rootFlags.configPath = filepath.Join(t.TempDir(), "missing.yaml")
	if err := setup(nil, nil); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestJpiString(t *testing.T) {
	cases := []struct {
		twoJ int
		p    nucleus.Parity
		want string
	}{
		{0, nucleus.ParityPositive, "0+"},
		{8, nucleus.ParityNegative, "4-"},
		{7, nucleus.ParityNegative, "7/2-"},
		{1, nucleus.ParityPositive, "1/2+"},
	}
	for _, tc := range cases {
		if got := jpiString(tc.twoJ, tc.p); got != tc.want {
			t.Errorf("jpiString(%d, %v) = %q, want %q", tc.twoJ, tc.p, got, tc.want)
		}
	}
}

func TestBranchString(t *testing.T) {
	ground := nucleus.Level{}
	if got := branchString(ground); got != "-" {
		t.Fatalf("expected endpoint marker, got %q", got)
	}
	lv := nucleus.Level{Branches: []nucleus.GammaBranch{
		{Target: 1, Probability: 0.8},
		{Target: 0, Probability: 0.2},
	}}
	want := "→1 0.800  →0 0.200"
	if got := branchString(lv); got != want {
		t.Fatalf("branchString = %q, want %q", got, want)
	}
}

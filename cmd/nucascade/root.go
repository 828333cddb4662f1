package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nucascade/internal/config"
	"nucascade/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// rootCfg is the effective configuration for the invoked command: the file
// named by --config (or the defaults), with logging flags applied on top.
var rootCfg config.Config

var rootCmd = &cobra.Command{
	Use:   "nucascade",
	Short: "Monte Carlo generator for neutrino-nucleus cascade events",
	Long: "Nucascade simulates charged-current neutrino captures on tabulated\n" +
		"targets and the gamma/fragment de-excitation cascade of the excited\n" +
		"residue, writing events in HEPEvt format.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func setup(_ *cobra.Command, _ []string) error {
	rootCfg = config.Default()
	if rootFlags.configPath != "" {
		cfg, err := config.Load(rootFlags.configPath)
		if err != nil {
			return err
		}
		rootCfg = cfg
	}
	if rootFlags.logLevel != "" {
		rootCfg.Logging.Level = rootFlags.logLevel
	}
	if rootFlags.logFormat != "" {
		rootCfg.Logging.Format = rootFlags.logFormat
	}
	level, err := logging.ParseLevel(rootCfg.Logging.Level)
	if err != nil {
		return err
	}
	logging.Init(level, rootCfg.Logging.Format)
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "Run configuration YAML file")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(xsecCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/mcpforge/internal/common"
	"github.com/bobmcallan/mcpforge/internal/config"
)

// exitCodeErr carries an exit code for the process. When returned from a
// command, run exits with that code without printing it.
type exitCodeErr int

func (e exitCodeErr) Error() string { return fmt.Sprintf("exit %d", int(e)) }
func (e exitCodeErr) ExitCode() int { return int(e) }

// cli holds the state shared by every command once flags are parsed.
type cli struct {
	configFiles []string
	logLevel    string

	cfg    *config.Config
	logger *common.Logger
}

// load resolves configuration and the logger. flags carries per-command
// overrides on top of the global ones.
func (c *cli) load(flags config.FlagOverrides) error {
	config.LoadVersionFromFile()

	files := c.configFiles
	if len(files) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				files = append(files, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(files...)
	if err != nil {
		return err
	}
	flags.LogLevel = c.logLevel
	config.ApplyFlagOverrides(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	c.cfg = cfg
	c.logger = common.NewLoggerFromConfig(cfg.Logging)
	c.logger.Debug().
		Str("config_files", fmt.Sprintf("%v", files)).
		Str("target", cfg.Generator.Target).
		Msg("configuration loaded")
	return nil
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "mcpforge",
		Short: "Generate MCP servers from tool set definitions",
		Long: "mcpforge validates MCP tool set definitions and generates runnable MCP servers,\n" +
			"manifests and distributable packages from them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringSliceVarP(&c.configFiles, "config", "c", nil, "configuration file path (repeatable)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newValidateCommand(c),
		newGenerateCommand(c),
		newManifestCommand(c),
		newPackageCommand(c),
		newServeCommand(c),
		newVersionCommand(),
	)
	return root
}

// run executes the CLI with args (without the program name) and returns the
// process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if ec, ok := err.(interface{ ExitCode() int }); ok {
			return ec.ExitCode()
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
func configSearchPaths() []string {
	candidates := []string{
		"mcpforge.toml",
		filepath.Join("config", "mcpforge.toml"),
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "mcpforge.toml"),
		filepath.Join(binDir, "config", "mcpforge.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}

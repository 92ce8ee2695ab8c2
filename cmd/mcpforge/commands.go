package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/mcpforge/internal/codegen"
	"github.com/bobmcallan/mcpforge/internal/config"
	"github.com/bobmcallan/mcpforge/internal/toolset"
)

// loadToolSet loads config with the target override and decodes the tool set
// at path.
func (c *cli) loadToolSet(path, target string) (*toolset.ToolSet, *codegen.Generator, error) {
	if err := c.load(config.FlagOverrides{Target: target}); err != nil {
		return nil, nil, err
	}
	ts, err := toolset.Load(path)
	if err != nil {
		return nil, nil, err
	}
	t, err := c.cfg.Target()
	if err != nil {
		return nil, nil, err
	}
	return ts, codegen.New(t), nil
}

// reportInvalid prints every problem of a refused generation and maps it to
// exit code 1. Other errors pass through.
func reportInvalid(cmd *cobra.Command, err error) error {
	var pe *codegen.PreconditionError
	if !errors.As(err, &pe) {
		return err
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Tool set is invalid (%d problem(s)):\n", len(pe.Problems))
	for _, msg := range pe.Messages() {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
	return exitCodeErr(1)
}

func newValidateCommand(c *cli) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a tool set definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, g, err := c.loadToolSet(args[0], target)
			if err != nil {
				return err
			}
			report := g.Check(*ts)
			c.logger.Debug().
				Str("file", args[0]).
				Int("tools", len(ts.Tools)).
				Int("problems", len(report.Problems)).
				Msg("validated tool set")
			if !report.OK() {
				return reportInvalid(cmd, &codegen.PreconditionError{Problems: report.Problems})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK: %d tool(s) valid for target %s\n", len(ts.Tools), g.Target().Name())
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "target language (python, go)")
	return cmd
}

func newGenerateCommand(c *cli) *cobra.Command {
	var target, outDir string
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Generate the server program, or the full package with --out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, g, err := c.loadToolSet(args[0], target)
			if err != nil {
				return err
			}
			if outDir == "" {
				program, err := g.GenerateProgram(*ts)
				if err != nil {
					return reportInvalid(cmd, err)
				}
				fmt.Fprint(cmd.OutOrStdout(), program)
				return nil
			}

			pkg, err := g.GeneratePackage(*ts)
			if err != nil {
				return reportInvalid(cmd, err)
			}
			if err := pkg.WriteDir(outDir); err != nil {
				return err
			}
			c.logger.Info().
				Str("dir", outDir).
				Str("target", pkg.Target).
				Int("files", len(pkg.Entries)).
				Msg("generated server")
			for _, e := range pkg.Entries {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(outDir, e.Filename))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "target language (python, go)")
	cmd.Flags().StringVar(&outDir, "out", "", "write program, manifest, README and dependency file into this directory")
	return cmd
}

func newManifestCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest <file>",
		Short: "Print the JSON manifest of a tool set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, g, err := c.loadToolSet(args[0], "")
			if err != nil {
				return err
			}
			m, err := g.GenerateManifest(*ts)
			if err != nil {
				return err
			}
			out, err := m.JSON()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func newPackageCommand(c *cli) *cobra.Command {
	var target, output string
	cmd := &cobra.Command{
		Use:   "package <file>",
		Short: "Bundle the generated server into a zip archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, g, err := c.loadToolSet(args[0], target)
			if err != nil {
				return err
			}
			pkg, err := g.GeneratePackage(*ts)
			if err != nil {
				return reportInvalid(cmd, err)
			}
			if output == "" {
				output = filepath.Join(c.cfg.Generator.OutputDir, pkg.ArchiveName())
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create archive: %w", err)
			}
			if err := pkg.WriteZip(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}
			c.logger.Info().Str("archive", output).Str("target", pkg.Target).Msg("packaged server")
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", "target language (python, go)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "archive path (default <output_dir>/<server>.zip)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadVersionFromFile()
			fmt.Fprintf(cmd.OutOrStdout(), "mcpforge %s\n", config.GetFullVersion())
			return nil
		},
	}
}

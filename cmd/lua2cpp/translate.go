package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/driver"
	"lua2cpp/internal/source"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] FILE",
	Short: "Translate one Lua file into a C++ unit",
	Long:  "Translate a single .lua file into a .cpp source and _state.hpp header pair.",
	Args:  cobra.ExactArgs(1),
	RunE:  translateExecution,
}

func init() {
	translateCmd.Flags().StringArray("convention", nil, "convention override, MODULE=STYLE (repeatable)")
	translateCmd.Flags().String("out", "", "output directory (default: alongside the input)")
	translateCmd.Flags().String("config", "", "path to lua2cpp.toml (default: search upward from the input)")
	translateCmd.Flags().String("diag-format", "pretty", "diagnostic output format (pretty|json)")
	translateCmd.Flags().Bool("no-fixup", false, "skip the variadic overload fixup pass")
}

func translateExecution(cmd *cobra.Command, args []string) error {
	specs, err := cmd.Flags().GetStringArray("convention")
	if err != nil {
		return err
	}
	outFlag, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	diagFormat, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		return err
	}
	noFixup, err := cmd.Flags().GetBool("no-fixup")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if diagFormat != "pretty" && diagFormat != "json" {
		return fmt.Errorf("unsupported diagnostic format %q (must be pretty or json)", diagFormat)
	}

	inputPath := args[0]
	inputDir := filepath.Dir(inputPath)

	manifest, err := resolveManifest(configPath, inputDir)
	if err != nil {
		return err
	}

	setupBag := diag.NewBag(maxDiags)
	conventions := buildConventions(manifest, specs, diag.BagReporter{Bag: setupBag})

	opts := driver.Options{
		MaxDiagnostics: maxDiags,
		Conventions:    conventions,
		SkipFixup:      noFixup,
	}

	var phaseEvents []driver.PhaseEvent
	if timings {
		opts.Phases = func(ev driver.PhaseEvent) {
			if ev.Status == driver.PhaseEnd {
				phaseEvents = append(phaseEvents, ev)
			}
		}
	}

	fileSet := source.NewFileSet()
	unit, loadErr := driver.TranslateFile(fileSet, inputPath, opts)

	var writeErr error
	if loadErr == nil && unit.Source != "" {
		outDir := resolveOutDir(outFlag, manifest, inputDir)
		writeErr = writeUnit(outDir, unit)
		if writeErr == nil && !quiet {
			name := source.SanitizeIdent(source.ModuleBaseName(unit.Path))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s.cpp and %s_state.hpp to %s\n", name, name, outDir)
		}
	}

	setupBag.Merge(unit.Bag)
	if err := renderDiagnostics(cmd, fileSet, setupBag, diagFormat); err != nil {
		return err
	}

	if timings {
		for _, ev := range phaseEvents {
			fmt.Fprintf(cmd.ErrOrStderr(), "%-8s %s\n", ev.Name, ev.Elapsed)
		}
	}

	switch {
	case loadErr != nil:
		return loadErr
	case writeErr != nil:
		return writeErr
	case setupBag.HasErrors():
		return fmt.Errorf("translation of %s failed", inputPath)
	}
	return nil
}

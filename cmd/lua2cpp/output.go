package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"lua2cpp/internal/convention"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/diagfmt"
	"lua2cpp/internal/driver"
	"lua2cpp/internal/source"
)

// buildConventions собирает реестр конвенций: сначала настройки из
// lua2cpp.toml, затем поверх них --convention со следующим приоритетом.
func buildConventions(manifest *projectManifest, specs []string, reporter diag.Reporter) *convention.Registry {
	registry := convention.NewRegistry()
	if manifest != nil {
		registry.ApplySettings(manifest.Config.Conventions, reporter)
	}
	registry.ApplySpecs(specs, reporter)
	return registry
}

// resolveManifest loads the project manifest either from an explicit
// --config path or by searching upward from startDir.
func resolveManifest(configPath, startDir string) (*projectManifest, error) {
	if configPath != "" {
		cfg, err := loadProjectConfig(configPath)
		if err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", configPath, err)
		}
		return &projectManifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
	}
	manifest, found, err := loadProjectManifest(startDir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return manifest, nil
}

// resolveOutDir picks the output directory: флаг, затем [output].dir из
// манифеста, затем каталог входного файла.
func resolveOutDir(flagValue string, manifest *projectManifest, inputDir string) string {
	if flagValue != "" {
		return flagValue
	}
	if manifest != nil && manifest.Config.Output.Dir != "" {
		dir := manifest.Config.Output.Dir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(manifest.Root, dir)
		}
		return dir
	}
	return inputDir
}

// writeUnit stores the generated .cpp and _state.hpp next to each other
// in outDir. Ошибки записи попадают и в bag юнита, и наружу.
func writeUnit(outDir string, unit *driver.Unit) error {
	if unit.Source == "" {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		reportWriteError(unit, err)
		return fmt.Errorf("failed to create output directory %q: %w", outDir, err)
	}
	name := source.SanitizeIdent(source.ModuleBaseName(unit.Path))
	srcPath := filepath.Join(outDir, name+".cpp")
	if err := os.WriteFile(srcPath, []byte(unit.Source), 0o644); err != nil {
		reportWriteError(unit, err)
		return fmt.Errorf("failed to write %q: %w", srcPath, err)
	}
	hdrPath := filepath.Join(outDir, name+"_state.hpp")
	if err := os.WriteFile(hdrPath, []byte(unit.Header), 0o644); err != nil {
		reportWriteError(unit, err)
		return fmt.Errorf("failed to write %q: %w", hdrPath, err)
	}
	return nil
}

func reportWriteError(unit *driver.Unit, err error) {
	diag.ReportError(diag.BagReporter{Bag: unit.Bag}, diag.IOWriteFileError,
		source.Span{}, err.Error()).Emit()
}

// renderDiagnostics prints the bag honoring the global --color flag.
func renderDiagnostics(cmd *cobra.Command, fs *source.FileSet, bag *diag.Bag, format string) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	bag.Sort()
	if format == "json" {
		maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
		if err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
		return diagfmt.JSON(cmd.OutOrStdout(), bag, fs, diagfmt.JSONOpts{
			Max:          maxDiags,
			IncludeNotes: true,
		})
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stderr))
	diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{
		Color:       useColor,
		ShowNotes:   true,
		ShowSnippet: true,
	})
	return nil
}

package main

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/driver"
	"lua2cpp/internal/source"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] DIR",
	Short: "Translate every Lua file under a directory",
	Long:  "Translate all .lua files under DIR in parallel, with an on-disk cache for unchanged inputs.",
	Args:  cobra.ExactArgs(1),
	RunE:  batchExecution,
}

func init() {
	batchCmd.Flags().StringArray("convention", nil, "convention override, MODULE=STYLE (repeatable)")
	batchCmd.Flags().String("out", "", "output directory (default: alongside the inputs)")
	batchCmd.Flags().String("config", "", "path to lua2cpp.toml (default: search upward from DIR)")
	batchCmd.Flags().Int("jobs", runtime.NumCPU(), "number of parallel translation workers")
	batchCmd.Flags().Bool("no-cache", false, "disable the on-disk translation cache")
	batchCmd.Flags().Bool("no-fixup", false, "skip the variadic overload fixup pass")
	batchCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func batchExecution(cmd *cobra.Command, args []string) error {
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
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	noFixup, err := cmd.Flags().GetBool("no-fixup")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	dir := args[0]

	manifest, err := resolveManifest(configPath, dir)
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

	var cache *driver.DiskCache
	if !noCache {
		cache, err = driver.OpenDiskCache("lua2cpp")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: translation cache unavailable: %v\n", err)
			cache = nil
		}
	}

	files, err := driver.ListLuaFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "no .lua files under %s\n", dir)
		}
		return nil
	}

	ctx := cmd.Context()
	var (
		fileSet *source.FileSet
		units   []*driver.Unit
		runErr  error
	)
	if shouldUseTUI(uiModeValue) && !quiet {
		title := "translating " + dir
		fileSet, units, runErr = runBatchWithUI(ctx, title, displayFileList(files, dir), dir, opts, jobs, cache)
	} else {
		var onDone func(driver.Event)
		if !quiet {
			onDone = func(ev driver.Event) {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d/%d] %s\n", ev.Index+1, ev.Total, ev.Path)
			}
		}
		fileSet, units, runErr = driver.TranslateDir(ctx, dir, opts, jobs, cache, onDone)
	}
	if runErr != nil {
		return runErr
	}

	outDir := resolveOutDir(outFlag, manifest, dir)
	failed := 0
	for _, unit := range units {
		if err := writeUnit(outDir, unit); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}
		if unit.Bag.HasErrors() {
			failed++
		}
		setupBag.Merge(unit.Bag)
	}

	if err := renderDiagnostics(cmd, fileSet, setupBag, "pretty"); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "translated %d units into %s (%d failed)\n", len(units), outDir, failed)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d units failed", failed, len(units))
	}
	return nil
}

// displayFileList показывает пути относительно каталога перевода.
func displayFileList(files []string, baseDir string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		if rel, err := filepath.Rel(baseDir, f); err == nil {
			out = append(out, rel)
			continue
		}
		out = append(out, f)
	}
	return out
}

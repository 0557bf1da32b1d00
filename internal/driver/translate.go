package driver

import (
	"bytes"

	"github.com/yuin/gopher-lua/parse"

	"lua2cpp/internal/collect"
	"lua2cpp/internal/convention"
	"lua2cpp/internal/detect"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/emit"
	"lua2cpp/internal/infer"
	"lua2cpp/internal/source"
	"lua2cpp/internal/stdlib"
	"lua2cpp/internal/strpool"
)

// Options configures one translation pipeline instance. Реестры можно
// шарить между юнитами: они только читаются.
type Options struct {
	MaxDiagnostics int
	Conventions    *convention.Registry
	Stdlib         *stdlib.Registry
	// SkipFixup отключает пост-пасс вариативных оверлоадов.
	SkipFixup bool
	// Phases, если задан, получает границы фаз пайплайна для таймингов.
	Phases PhaseObserver
}

func (o Options) withDefaults() Options {
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 256
	}
	if o.Conventions == nil {
		o.Conventions = convention.NewRegistry()
	}
	if o.Stdlib == nil {
		o.Stdlib = stdlib.NewRegistry()
	}
	return o
}

// Unit is the translation result for one source file.
type Unit struct {
	Path   string
	FileID source.FileID
	Source string // тело .cpp
	Header string // декларации
	Bag    *diag.Bag
	// Unsupported отмечает юнит с детектированной самоаппликацией:
	// текст сгенерирован best-effort, но доверять ему нельзя.
	Unsupported bool
}

// Translate runs the full pipeline over one loaded file:
// parse → collect → infer → detect → emit → fixup.
func Translate(fileSet *source.FileSet, id source.FileID, opts Options) *Unit {
	opts = opts.withDefaults()
	file := fileSet.Get(id)

	unit := &Unit{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: unit.Bag})

	doneParse := observePhase(opts.Phases, "parse")
	chunk, err := parse.Parse(bytes.NewReader(file.Content), file.Path)
	doneParse()
	if err != nil {
		line := 0
		if pe, ok := err.(*parse.Error); ok {
			line = pe.Pos.Line
		}
		reporter.Report(diag.SynParseFailed, diag.SevError,
			source.At(id, line), err.Error(), "", nil)
		return unit
	}

	doneAnalyze := observePhase(opts.Phases, "analyze")
	calls := collect.NewCollector(opts.Stdlib, id, reporter).Collect(chunk)
	inferred := infer.NewResolver(opts.Stdlib, id, reporter).Resolve(chunk)
	classes := detect.NewClassDetector(id, reporter).Detect(chunk)
	selfApps := detect.NewSelfAppDetector(file, reporter).Detect(chunk)
	unit.Unsupported = len(selfApps) > 0
	doneAnalyze()

	// Дублирование символа ломает анализ юнита: дальше не идём.
	if unit.Bag.HasErrors() && !unit.Unsupported {
		return unit
	}

	doneEmit := observePhase(opts.Phases, "emit")
	pool := strpool.New()
	out := emit.New(emit.Input{
		File:        file,
		Chunk:       chunk,
		Stdlib:      opts.Stdlib,
		Conventions: opts.Conventions,
		Types:       inferred,
		Calls:       calls,
		Classes:     classes,
		Pool:        pool,
		Reporter:    reporter,
	}).Emit()

	unit.Source = out.Source
	unit.Header = out.Header
	doneEmit()

	if !opts.SkipFixup {
		doneFixup := observePhase(opts.Phases, "fixup")
		fixed, touched := emit.Fixup(unit.Source)
		doneFixup()
		unit.Source = fixed
		for _, name := range touched {
			reporter.Report(diag.GenVariadicFixup, diag.SevInfo, source.Span{},
				"variadic forwarding overload synthesized for "+name, "", nil)
		}
	}

	return unit
}

// TranslateSource is the in-memory entry point: file попадает в набор
// как виртуальный. Удобно для тестов и stdin.
func TranslateSource(fileSet *source.FileSet, name string, src []byte, opts Options) *Unit {
	id := fileSet.AddVirtual(name, src)
	return Translate(fileSet, id, opts)
}

// TranslateFile loads a file from disk and translates it.
func TranslateFile(fileSet *source.FileSet, path string, opts Options) (*Unit, error) {
	id, err := fileSet.Load(path)
	if err != nil {
		opts = opts.withDefaults()
		unit := &Unit{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
		unit.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load file: " + err.Error(),
		})
		return unit, err
	}
	return Translate(fileSet, id, opts), nil
}

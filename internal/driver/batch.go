package driver

import (
	"context"
	"crypto/sha256"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"lua2cpp/internal/convention"
	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// Event notifies a subscriber about one finished unit. Коллбек зовётся
// из воркеров: получатель сам отвечает за синхронизацию.
type Event struct {
	Index int
	Total int
	Path  string
	Unit  *Unit
}

// ListLuaFiles возвращает отсортированный список всех *.lua файлов в
// директории. Сортировка делает порядок батча детерминированным.
func ListLuaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".lua") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// TranslateDir translates every *.lua file under dir in parallel.
// Результаты лежат по индексу файла, мьютекс не нужен. cache и onDone
// опциональны.
func TranslateDir(ctx context.Context, dir string, opts Options, jobs int, cache *DiskCache, onDone func(Event)) (*source.FileSet, []*Unit, error) {
	opts = opts.withDefaults()

	files, err := ListLuaFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Файлы загружаются до старта воркеров: FileSet не рассчитан на
	// конкурентную запись.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			continue
		}
		fileIDs[path] = id
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := make([]*Unit, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if loadErr, failed := loadErrors[path]; failed {
				unit := &Unit{Path: path, Bag: diag.NewBag(opts.MaxDiagnostics)}
				unit.Bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
				})
				units[i] = unit
				notify(onDone, Event{Index: i, Total: len(files), Path: path, Unit: unit})
				return nil
			}

			id := fileIDs[path]
			units[i] = translateCached(fileSet, id, opts, cache)
			notify(onDone, Event{Index: i, Total: len(files), Path: path, Unit: units[i]})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, units, err
	}
	return fileSet, units, nil
}

func notify(onDone func(Event), ev Event) {
	if onDone != nil {
		onDone(ev)
	}
}

// cacheKey mixes the content hash with everything else that shapes the
// output: политики лоуэринга и флаг фиксапа. Иначе смена конвенций
// вернула бы юнит, сгенерированный под старые.
func cacheKey(file *source.File, opts Options) [32]byte {
	conv := opts.Conventions
	if conv == nil {
		conv = convention.NewRegistry()
	}
	fp := conv.Fingerprint()

	h := sha256.New()
	h.Write(file.Hash[:])
	h.Write(fp[:])
	if opts.SkipFixup {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}

	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

// translateCached answers from the disk cache when the unit key
// matches, иначе транслирует и кладёт чистый результат в кеш.
func translateCached(fileSet *source.FileSet, id source.FileID, opts Options, cache *DiskCache) *Unit {
	file := fileSet.Get(id)
	key := cacheKey(file, opts)

	if cache != nil {
		var payload CachePayload
		if hit, err := cache.Get(key, &payload); err == nil && hit {
			return &Unit{
				Path:        file.Path,
				FileID:      id,
				Source:      payload.Source,
				Header:      payload.Header,
				Unsupported: payload.Unsupported,
				Bag:         diag.NewBag(opts.MaxDiagnostics),
			}
		}
	}

	unit := Translate(fileSet, id, opts)

	// Кешируются только юниты без диагностик: спаны и сниппеты не
	// переживают перенос между запусками.
	if cache != nil && unit.Bag.Len() == 0 {
		_ = cache.Put(key, &CachePayload{
			Schema:      cacheSchemaVersion,
			Path:        file.Path,
			Source:      unit.Source,
			Header:      unit.Header,
			Unsupported: unit.Unsupported,
		})
	}
	return unit
}

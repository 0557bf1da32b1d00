// Package convention decides how a qualified Lua reference is lowered into
// C++: through a nominal namespace, a flattened function name, or dynamic
// table indexing. Table is the default: самый медленный, но всегда корректный.
package convention

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"lua2cpp/internal/diag"
	"lua2cpp/internal/source"
)

// Kind enumerates the lowering policies.
type Kind uint8

const (
	Table      Kind = iota // X["Y"] — динамическая индексация
	Namespace              // X::Y() — номинальный вызов через namespace
	Flat                   // X_Y() — плоское имя с префиксом
	FlatNested             // X_Y_Z() — плоское имя по всей цепочке
)

func (k Kind) String() string {
	switch k {
	case Namespace:
		return "namespace"
	case Flat:
		return "flat"
	case FlatNested:
		return "flat_nested"
	default:
		return "table"
	}
}

// ParseKind maps a user-facing convention name onto a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "namespace":
		return Namespace, true
	case "flat":
		return Flat, true
	case "flat_nested":
		return FlatNested, true
	case "table":
		return Table, true
	}
	return Table, false
}

// Config is one module's lowering policy.
type Config struct {
	Convention   Kind
	Prefix       string // для Flat/FlatNested
	Namespace    string // для Namespace
	FlattenDepth int    // сколько сегментов склеивать, -1 = все
}

// ModuleSetting mirrors one [conventions.<module>] section of lua2cpp.toml.
// Загрузка файла — забота cmd; реестр только применяет значения.
type ModuleSetting struct {
	Style        string `toml:"style"`
	Prefix       string `toml:"prefix"`
	Namespace    string `toml:"namespace"`
	FlattenDepth int    `toml:"flatten_depth"`
}

// Registry maps module root names to lowering configs.
type Registry struct {
	modules map[string]Config
}

// NewRegistry builds a registry preloaded with the standard library defaults.
func NewRegistry() *Registry {
	r := &Registry{modules: make(map[string]Config)}

	// Стандартные библиотеки — namespace-стиль.
	r.Register("math", Config{Convention: Namespace, Namespace: "math_lib", FlattenDepth: -1})
	r.Register("io", Config{Convention: Namespace, Namespace: "io", FlattenDepth: -1})
	r.Register("string", Config{Convention: Namespace, Namespace: "string_lib", FlattenDepth: -1})
	r.Register("table", Config{Convention: Namespace, Namespace: "table_lib", FlattenDepth: -1})
	r.Register("os", Config{Convention: Namespace, Namespace: "os_lib", FlattenDepth: -1})

	// Рантайм транспилятора.
	r.Register("l2c", Config{Convention: Namespace, Namespace: "l2c", FlattenDepth: -1})

	return r
}

// Register stores the policy for a module root name.
func (r *Registry) Register(module string, cfg Config) {
	r.modules[module] = cfg
}

// GetConfig returns the module's policy, defaulting to Table.
func (r *Registry) GetConfig(module string) Config {
	if cfg, ok := r.modules[module]; ok {
		return cfg
	}
	return Config{Convention: Table, FlattenDepth: -1}
}

// GetConvention returns only the policy kind.
func (r *Registry) GetConvention(module string) Kind {
	return r.GetConfig(module).Convention
}

// HasConvention reports whether the module was explicitly registered.
func (r *Registry) HasConvention(module string) bool {
	_, ok := r.modules[module]
	return ok
}

// Fingerprint digests every registered policy. Одинаковые реестры дают
// один отпечаток независимо от порядка регистрации.
func (r *Registry) Fingerprint() [32]byte {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		cfg := r.modules[name]
		fmt.Fprintf(h, "%s\x00%d\x00%s\x00%s\x00%d\n",
			name, cfg.Convention, cfg.Prefix, cfg.Namespace, cfg.FlattenDepth)
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// ApplySpecs loads "module=convention" overrides. Разбор нарочно
// снисходительный: кривые записи пропускаются (с warning-ом, если есть
// reporter), остальные применяются.
func (r *Registry) ApplySpecs(specs []string, reporter diag.Reporter) {
	for _, spec := range specs {
		module, convStr, found := strings.Cut(spec, "=")
		if !found {
			report(reporter, spec, "missing '='")
			continue
		}
		module = strings.TrimSpace(module)
		convStr = strings.TrimSpace(convStr)
		kind, ok := ParseKind(convStr)
		if !ok || module == "" {
			report(reporter, spec, "unknown convention "+convStr)
			continue
		}
		cfg := Config{Convention: kind, FlattenDepth: -1}
		if kind == Flat || kind == FlatNested {
			// Префикс выводится из имени модуля.
			cfg.Prefix = module + "_"
		}
		r.Register(module, cfg)
	}
}

// ApplySettings loads overrides decoded from lua2cpp.toml.
func (r *Registry) ApplySettings(settings map[string]ModuleSetting, reporter diag.Reporter) {
	for module, s := range settings {
		kind, ok := ParseKind(s.Style)
		if !ok {
			report(reporter, module, "unknown convention style "+s.Style)
			continue
		}
		cfg := Config{Convention: kind, FlattenDepth: s.FlattenDepth}
		if s.Prefix != "" {
			cfg.Prefix = s.Prefix
		} else if kind == Flat || kind == FlatNested {
			cfg.Prefix = module + "_"
		}
		if s.Namespace != "" {
			cfg.Namespace = s.Namespace
		} else if kind == Namespace {
			cfg.Namespace = module
		}
		r.Register(module, cfg)
	}
}

func report(reporter diag.Reporter, spec, why string) {
	if reporter == nil {
		return
	}
	reporter.Report(diag.SemaBadConventionSpec, diag.SevWarning, source.Span{},
		"skipping convention spec "+spec+": "+why, "", nil)
}

// Lower renders the C++ reference text for a dotted path under the module's
// policy. parts содержит полный путь, включая корень: ["math", "sqrt"].
func (r *Registry) Lower(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	cfg := r.GetConfig(parts[0])
	return LowerWith(cfg, parts)
}

// LowerWith renders the reference for an explicit config.
func LowerWith(cfg Config, parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	if len(parts) == 1 {
		return parts[0]
	}

	switch cfg.Convention {
	case Namespace:
		ns := cfg.Namespace
		if ns == "" {
			ns = parts[0]
		}
		return ns + "::" + strings.Join(parts[1:], "::")

	case Flat:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = parts[0] + "_"
		}
		return prefix + parts[len(parts)-1]

	case FlatNested:
		depth := cfg.FlattenDepth
		if depth < 0 || depth > len(parts) {
			depth = len(parts)
		}
		if depth < 2 {
			depth = 2
		}
		flat := strings.Join(parts[:depth], "_")
		rest := parts[depth:]
		var b strings.Builder
		b.WriteString(flat)
		for _, p := range rest {
			b.WriteString("[\"")
			b.WriteString(p)
			b.WriteString("\"]")
		}
		return b.String()

	default: // Table
		var b strings.Builder
		b.WriteString(parts[0])
		for _, p := range parts[1:] {
			b.WriteString("[\"")
			b.WriteString(p)
			b.WriteString("\"]")
		}
		return b.String()
	}
}

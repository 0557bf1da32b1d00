package source

import (
	"path/filepath"
	"strings"
)

// ModuleBaseName strips the directory and the .lua extension from a unit path.
// "src/my-file.lua" -> "my-file".
func ModuleBaseName(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".lua") {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// SanitizeIdent replaces every rune outside the C++ identifier alphabet with '_'.
// Регистр не меняем: порядок генерации должен быть воспроизводимым по имени файла.
func SanitizeIdent(name string) string {
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ModuleInitName derives the per-unit entry point name.
// "my-file.lua" -> "my_file_module_init". Расширение в имя не попадает никогда.
func ModuleInitName(path string) string {
	return SanitizeIdent(ModuleBaseName(path)) + "_module_init"
}

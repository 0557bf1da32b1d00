package emit

import (
	"regexp"
	"sort"
	"strings"
)

// fixupMarker tags every synthesized overload so repeated passes are no-ops.
const fixupMarker = "// fix_lua_semantics: variadic overload added for "

// templateFnRe matches a template function definition head: параметры
// шаблона, тип возврата, имя и список аргументов до открывающей скобки.
var templateFnRe = regexp.MustCompile(
	`template\s*<([^>]*)>\s*([A-Za-z_][\w:<>,\s&*]*?)\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*\{`)

// abbrevFnRe matches an abbreviated template head at column zero: тип
// возврата, имя и список параметров. Шаблоном такую функцию делают
// auto-параметры, это проверяется отдельно.
var abbrevFnRe = regexp.MustCompile(
	`(?m)^([A-Za-z_][\w:<>]*)\s+([A-Za-z_]\w*)\s*\(([^)]*)\)\s*\{`)

// fnHead — одна дефиниция, которой может понадобиться оверлоад.
// tmplParams пуст для сокращённой формы (auto-параметры вместо template<>).
type fnHead struct {
	end        int // индекс за открывающей скобкой тела
	tmplParams string
	retType    string
	name       string
	params     string
}

// Fixup scans emitted text for template functions and appends a variadic
// forwarding overload after each. Лишние хвостовые аргументы на сайтах
// вызова молча проглатываются и уходят в каноническую арность. Пасс
// идемпотентен: помеченные функции пропускаются.
func Fixup(src string) (string, []string) {
	heads := collectHeads(src)
	if len(heads) == 0 {
		return src, nil
	}

	var touched []string
	// Идём с конца, чтобы вставки не сдвигали более ранние позиции.
	for i := len(heads) - 1; i >= 0; i-- {
		h := heads[i]

		// Уже вариативная функция в фиксе не нуждается.
		if strings.Contains(h.params, "...") || strings.Contains(h.tmplParams, "...") {
			continue
		}

		end := findFunctionEnd(src, h.end-1)
		if end < 0 {
			continue
		}

		// Идемпотентность: маркер сразу за функцией означает, что оверлоад
		// уже добавлен предыдущим прогоном.
		lookahead := src[end:min(end+500, len(src))]
		if strings.Contains(lookahead, fixupMarker+h.name) {
			continue
		}

		decls, names := splitParams(h.params)
		if len(names) == 0 {
			continue
		}

		var b strings.Builder
		b.WriteString("\n\n")
		if h.tmplParams != "" {
			b.WriteString("template<")
			b.WriteString(h.tmplParams)
			b.WriteString(", typename... Unused>\n")
			b.WriteString(h.retType)
			b.WriteString(" ")
			b.WriteString(h.name)
			b.WriteString("(")
			b.WriteString(strings.Join(decls, ", "))
			b.WriteString(", Unused&&...) {\n")
		} else {
			b.WriteString(h.retType)
			b.WriteString(" ")
			b.WriteString(h.name)
			b.WriteString("(")
			b.WriteString(strings.Join(decls, ", "))
			b.WriteString(", auto&&...) {\n")
		}
		b.WriteString("    return ")
		b.WriteString(h.name)
		b.WriteString("(")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString(");\n}\n")
		b.WriteString(fixupMarker)
		b.WriteString(h.name)

		src = src[:end] + b.String() + src[end:]
		touched = append(touched, h.name)
	}

	// touched собирался с конца файла: вернём в порядке появления.
	for l, r := 0, len(touched)-1; l < r; l, r = l+1, r-1 {
		touched[l], touched[r] = touched[r], touched[l]
	}
	return src, touched
}

// collectHeads находит явные и сокращённые шаблонные дефиниции. Голова
// явного шаблона совпадает и с abbrevFnRe, такие дубли отбрасываются
// по позиции открывающей скобки.
func collectHeads(src string) []fnHead {
	var heads []fnHead
	seen := make(map[int]struct{})

	for _, m := range templateFnRe.FindAllStringSubmatchIndex(src, -1) {
		heads = append(heads, fnHead{
			end:        m[1],
			tmplParams: src[m[2]:m[3]],
			retType:    strings.TrimSpace(src[m[4]:m[5]]),
			name:       src[m[6]:m[7]],
			params:     src[m[8]:m[9]],
		})
		seen[m[1]] = struct{}{}
	}

	for _, m := range abbrevFnRe.FindAllStringSubmatchIndex(src, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		params := src[m[6]:m[7]]
		// Без auto-параметров это обычная функция, оверлоад ей не нужен.
		if !strings.Contains(params, "auto") {
			continue
		}
		heads = append(heads, fnHead{
			end:     m[1],
			retType: src[m[2]:m[3]],
			name:    src[m[4]:m[5]],
			params:  params,
		})
	}

	sort.Slice(heads, func(i, j int) bool { return heads[i].end < heads[j].end })
	return heads
}

// findFunctionEnd находит закрывающую скобку тела, начиная с позиции
// открывающей. Возвращает индекс за закрывающей скобкой, -1 если тело
// не сбалансировано.
func findFunctionEnd(src string, open int) int {
	depth := 0
	for i := open; i < len(src); i++ {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// splitParams разбирает список параметров на декларации и имена.
func splitParams(params string) (decls []string, names []string) {
	for _, raw := range strings.Split(params, ",") {
		p := strings.TrimSpace(raw)
		if p == "" {
			continue
		}
		decls = append(decls, p)

		fields := strings.Fields(p)
		last := fields[len(fields)-1]
		last = strings.TrimLeft(last, "&*")
		names = append(names, last)
	}
	return decls, names
}

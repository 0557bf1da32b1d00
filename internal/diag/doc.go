// Package diag defines the diagnostic model shared by all transpiler phases.
//
//   - Diagnostic is the central record: severity, stable numeric code, message,
//     primary line span and optional notes. Detector diagnostics may also carry
//     the trimmed source snippet of the offending line.
//   - Bag aggregates diagnostics with a hard cap and supports sorting,
//     deduplication and merging across phases.
//   - Reporter decouples producers (collector, resolver, detectors, emitter)
//     from storage; BagReporter is the standard sink.
//
// Package diag performs no formatting and no IO. Rendering lives in
// internal/diagfmt; orchestration per translation unit lives in internal/driver.
//
// Фатальные условия (дубликат символа, underflow стека областей) дублируются
// ошибками Go в соответствующих пакетах: диагностика для вывода, ошибка для
// прерывания анализа юнита.
package diag

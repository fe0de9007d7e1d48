// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes
// through unit decoding, validation, the export walk and header emission.
// Its goal is to guard against panics and hangs on malformed resolved units.
//
// Назначение: запускать fuzz-обработчики для всех форматов входных юнитов.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/project, internal/export, internal/header,
// internal/diag, internal/testkit.
package fuzztests

// Package fuzztests houses Go fuzz harnesses for the front-end
// (source -> lexer -> parser). They guard against panics, hangs and broken
// span invariants on arbitrary inputs.
//
// Назначение: загружать байты в FileSet и прогонять их через лексер/парсер.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests

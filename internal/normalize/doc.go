// Package normalize turns provider CSV exports into canonical inventory records.
//
// Exporters disagree on column names, encodings and value spellings, so the
// package resolves every logical field through an ordered alias list, coerces
// values into canonical forms and partitions rows into accepted records and
// skip entries. Every input row ends up in exactly one of the two outputs.
//
// The pipeline for one batch:
//
//	Decode     bytes -> text (utf-8, then latin-1, then cp1252, then lossy utf-8)
//	Parse      header + rows via encoding/csv (lazy quotes, ragged rows)
//	NewRow     lower-cased trimmed keys, trimmed values
//	classify   Arc pre-filter -> strategy extraction -> required fields -> Validate
//
// Normalization is synchronous and keeps no state between calls, so it is safe
// to call from many goroutines at once.
package normalize

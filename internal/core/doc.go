// Package core provides the business logic of the database inventory.
//
// It sits between transports (HTTP handlers, the dbinv CLI, the S3 sync
// scheduler) and the store, and contains no transport code itself.
//
// # Imports
//
// [Service.ImportCSV] runs one provider export through the normalizer and
// applies the result in a single store transaction:
//
//  1. Acquire an import slot from the [ImportLimiter]
//  2. Normalize the bytes into accepted records and skip entries
//  3. Optionally purge the provider's records
//  4. Insert records whose duplicate key is not yet present
//  5. Optionally delete stored records absent from the file (sync mode)
//  6. Save an import run summary
//
// A file that yields no records fails with a [NoValidRecordsError] listing
// the missing fields seen most often, and nothing is written.
//
// # Reports
//
// Stats, engine metrics, upgrade candidates, duplicate groups and filter
// options are computed from record listings by pure functions so they can be
// tested without a database.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB007: Database errors (duplicates, constraints, connections)
//   - VAL001-VAL006: Validation errors (formats, missing columns, enums)
//   - FILE001-FILE005: File errors (size, encoding, format)
//   - IMP001-IMP005: Import errors (busy, cancelled, timeout)
//   - REC001: Record lookups
package core

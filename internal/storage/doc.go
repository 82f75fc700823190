// Package storage provides content.Source drivers.
//
// Drivers:
//   - "sheets": one Google spreadsheet per language (first worksheet, header row)
//   - "sqlite": an items table keyed by language
//   - "csv": one CSV file per language with a header row
package storage

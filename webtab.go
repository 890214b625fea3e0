// Package webtab turns web pages into spreadsheet tables. It fetches the
// rendered page, normalizes it to clean text, asks a language model to pull
// the fields named in a free-text instruction out of each bounded chunk,
// and reassembles the per-chunk Markdown tables into one table per URL.
//
// This package contains domain types, interfaces and the pure parts of the
// pipeline (chunking, prompt building, table assembly, sheet naming),
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., rod/, goquery/,
// openai/, sqlite/, xlsx/).
package webtab

// Package checklist parses and renders the line-oriented TODO document.
//
// Each line becomes a typed Line carrying its checkbox state, title text, and
// first #<digits> issue reference, so reconciliation never inspects raw text
// directly. Store reads and atomically rewrites the document on disk.
package checklist

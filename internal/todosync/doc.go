// Package todosync reconciles a TODO checklist with a GitHub repository's issues.
//
// A sync runs three passes over the parsed checklist: issues are created for
// new unchecked items, entries are appended for open issues the checklist does
// not mention, and entries whose issue is closed move beneath the completed
// heading. Every referenced issue body is mirrored to disk along the way.
// Per-item failures are collected in the Result instead of aborting the run.
package todosync

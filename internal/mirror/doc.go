// Package mirror keeps a local copy of each referenced issue body.
//
// Files are named "<number>-<slug>.md" where the slug is derived from the issue
// title, and are overwritten on every sync.
package mirror

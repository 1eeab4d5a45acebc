// Package filesystem provides the file system abstraction shared by the
// checklist and mirror stores, with atomic replacement for writes.
package filesystem

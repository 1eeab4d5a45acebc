// Package gitrepo resolves GitHub repository identities.
//
// It parses SSH and HTTPS remote URLs into owner/name pairs and reads them
// from a working copy's configured remote through git.
package gitrepo

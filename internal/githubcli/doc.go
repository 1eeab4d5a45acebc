// Package githubcli wraps the GitHub CLI for issue tracker access.
//
// Client creates, lists, and fetches issues through `gh api`, decoding the REST
// responses into Issue values and reporting failures as typed errors. The
// executor dependency is an interface so tests can stub gh entirely.
package githubcli

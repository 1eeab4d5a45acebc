package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by GitHub authentication helpers.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// Token is a resolved GitHub credential and the variable it came from.
type Token struct {
	Value  string
	Source string
}

// ResolveToken returns the first non-empty token in preference order. A nil lookup reads the process environment.
func ResolveToken(lookup EnvironmentLookup) (Token, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for _, variableName := range tokenPreference {
		value, exists := lookup(variableName)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		return Token{Value: value, Source: variableName}, true
	}
	return Token{}, false
}

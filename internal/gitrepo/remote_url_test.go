package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/todosync/internal/execshell"
	"github.com/temirov/todosync/internal/gitrepo"
)

func TestParseRemoteURL(testInstance *testing.T) {
	testCases := []struct {
		name        string
		remote      string
		expected    gitrepo.RemoteURL
		expectError bool
	}{
		{
			name:     "scp_style_ssh",
			remote:   "git@github.com:owner/example.git",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "owner", Repository: "example"},
		},
		{
			name:     "ssh_url",
			remote:   "ssh://git@github.com/owner/example.git\n",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolSSH, Host: "github.com", Owner: "owner", Repository: "example"},
		},
		{
			name:     "https_url",
			remote:   "https://github.com/owner/example",
			expected: gitrepo.RemoteURL{Protocol: gitrepo.RemoteProtocolHTTPS, Host: "github.com", Owner: "owner", Repository: "example"},
		},
		{
			name:        "unsupported_protocol",
			remote:      "ftp://github.com/owner/example",
			expectError: true,
		},
		{
			name:        "empty",
			remote:      "  ",
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			remote, parseError := gitrepo.ParseRemoteURL(testCase.remote)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				require.IsType(testInstance, gitrepo.RemoteURLParseError{}, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, remote)
		})
	}
}

func TestParseRepositoryIdentifier(testInstance *testing.T) {
	testCases := []struct {
		name        string
		identifier  string
		expected    string
		expectError bool
	}{
		{name: "owner_and_name", identifier: " owner/example ", expected: "owner/example"},
		{name: "remote_url", identifier: "git@github.com:owner/example.git", expected: "owner/example"},
		{name: "missing_owner", identifier: "example", expectError: true},
		{name: "too_many_segments", identifier: "owner/example/extra", expectError: true},
		{name: "empty", identifier: "", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			identifier, parseError := gitrepo.ParseRepositoryIdentifier(testCase.identifier)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expected, identifier)
		})
	}
}

type stubGitExecutor struct {
	result          execshell.ExecutionResult
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.result, executor.executionError
}

func TestRemoteResolverResolveRepository(testInstance *testing.T) {
	testInstance.Run("nil_executor", func(testInstance *testing.T) {
		resolver, creationError := gitrepo.NewRemoteResolver(nil)
		require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
		require.Nil(testInstance, resolver)
	})

	testInstance.Run("default_remote", func(testInstance *testing.T) {
		executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: "https://github.com/owner/example.git\n"}}
		resolver, creationError := gitrepo.NewRemoteResolver(executor)
		require.NoError(testInstance, creationError)

		repository, resolveError := resolver.ResolveRepository(context.Background(), "/workspace/repo", "")
		require.NoError(testInstance, resolveError)
		require.Equal(testInstance, "owner/example", repository)
		require.Len(testInstance, executor.recordedDetails, 1)
		require.Equal(testInstance, []string{"remote", "get-url", "origin"}, executor.recordedDetails[0].Arguments)
		require.Equal(testInstance, "/workspace/repo", executor.recordedDetails[0].WorkingDirectory)
	})

	testInstance.Run("lookup_failure", func(testInstance *testing.T) {
		executor := &stubGitExecutor{executionError: errors.New("no such remote")}
		resolver, creationError := gitrepo.NewRemoteResolver(executor)
		require.NoError(testInstance, creationError)

		_, resolveError := resolver.ResolveRepository(context.Background(), ".", "upstream")
		require.ErrorContains(testInstance, resolveError, "failed to read upstream remote")
	})

	testInstance.Run("unparseable_remote", func(testInstance *testing.T) {
		executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: "/srv/git/example.git"}}
		resolver, creationError := gitrepo.NewRemoteResolver(executor)
		require.NoError(testInstance, creationError)

		_, resolveError := resolver.ResolveRepository(context.Background(), ".", "origin")
		require.ErrorContains(testInstance, resolveError, "failed to parse origin remote")
	})
}

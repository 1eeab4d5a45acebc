package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildMessagesForIssueEndpoints(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedStart   string
		expectedSuccess string
	}{
		{
			name:            "CreateIssue",
			arguments:       []string{"api", "repos/owner/example/issues", "-X", "POST", "--input", "-"},
			expectedStart:   "Creating issue in owner/example",
			expectedSuccess: "Created issue in owner/example",
		},
		{
			name:            "ListOpenIssues",
			arguments:       []string{"api", "repos/owner/example/issues?state=open&per_page=100", "--paginate"},
			expectedStart:   "Listing open issues in owner/example",
			expectedSuccess: "Listed open issues in owner/example",
		},
		{
			name:            "GetIssue",
			arguments:       []string{"api", "repos/owner/example/issues/42"},
			expectedStart:   "Fetching issue #42 from owner/example",
			expectedSuccess: "Fetched issue #42 from owner/example",
		},
		{
			name:            "UnrecognizedEndpoint",
			arguments:       []string{"api", "user"},
			expectedStart:   "Running gh api user",
			expectedSuccess: "Completed gh api user",
		},
	}

	formatter := CommandMessageFormatter{}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: testCase.arguments}}
			require.Equal(t, testCase.expectedStart, formatter.BuildStartedMessage(command))
			require.Equal(t, testCase.expectedSuccess, formatter.BuildSuccessMessage(command, ExecutionResult{}))
		})
	}
}

func TestBuildFailureMessageIncludesStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "repos/owner/example/issues/7"}}}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1, StandardError: "HTTP 404: Not Found\n"})

	require.Equal(t, "Failed to fetch issue #7 from owner/example (exit code 1: HTTP 404: Not Found)", message)
}

func TestBuildExecutionFailureMessageForCreate(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGitHub, Details: CommandDetails{Arguments: []string{"api", "repos/owner/example/issues", "-X", "POST"}}}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found"))

	require.Equal(t, "Unable to create issue in owner/example: executable file not found", message)
}

func TestBuildMessagesForRemoteLookup(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "get-url", "origin"},
			WorkingDirectory: "/workspace/repo",
		},
	}

	require.Equal(t, "Checking origin remote for /workspace/repo", formatter.BuildStartedMessage(command))
	require.Equal(t, "origin remote for /workspace/repo points to git@github.com:owner/example.git", formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "git@github.com:owner/example.git\n"}))
}

func TestBuildGenericMessageIncludesWorkingDirectory(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status"}, WorkingDirectory: "/workspace/repo"}}

	require.Equal(t, "Running git status (in /workspace/repo)", formatter.BuildStartedMessage(command))
}

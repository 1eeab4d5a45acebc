package todosync_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/todosync/internal/execshell"
	"github.com/temirov/todosync/internal/githubauth"
	"github.com/temirov/todosync/internal/todosync"
)

type stubCommandExecutor struct {
	gitOutput      string
	gitError       error
	issues         map[string]string
	openIssues     string
	createdNumber  int
	gitHubCommands []execshell.CommandDetails
	gitCommands    []execshell.CommandDetails
}

func (executor *stubCommandExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitCommands = append(executor.gitCommands, details)
	if executor.gitError != nil {
		return execshell.ExecutionResult{}, executor.gitError
	}
	return execshell.ExecutionResult{StandardOutput: executor.gitOutput}, nil
}

func (executor *stubCommandExecutor) ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.gitHubCommands = append(executor.gitHubCommands, details)
	endpoint := details.Arguments[1]
	switch {
	case strings.Contains(strings.Join(details.Arguments, " "), "-X POST"):
		var payload struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		}
		if decodeError := json.Unmarshal(details.StandardInput, &payload); decodeError != nil {
			return execshell.ExecutionResult{}, decodeError
		}
		response, _ := json.Marshal(map[string]any{"number": executor.createdNumber, "title": payload.Title, "body": payload.Body, "state": "open"})
		return execshell.ExecutionResult{StandardOutput: string(response)}, nil
	case strings.Contains(endpoint, "state=open"):
		return execshell.ExecutionResult{StandardOutput: executor.openIssues}, nil
	default:
		if response, found := executor.issues[endpoint]; found {
			return execshell.ExecutionResult{StandardOutput: response}, nil
		}
		return execshell.ExecutionResult{ExitCode: 1}, errors.New("HTTP 404: Not Found")
	}
}

func environmentFrom(values map[string]string) githubauth.EnvironmentLookup {
	return func(key string) (string, bool) {
		value, found := values[key]
		return value, found
	}
}

func runSyncCommand(testInstance *testing.T, builder *todosync.CommandBuilder, arguments ...string) (string, error) {
	testInstance.Helper()
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&output)
	command.SetArgs(append([]string{}, arguments...))
	command.SetContext(context.Background())
	executionError := command.Execute()
	return output.String(), executionError
}

func TestSyncCommandSkipsWithoutConfiguration(testInstance *testing.T) {
	testCases := []struct {
		name           string
		environment    map[string]string
		configuration  todosync.CommandConfiguration
		gitError       error
		expectedOutput string
		expectGit      bool
	}{
		{
			name:           "missing token",
			environment:    map[string]string{},
			configuration:  todosync.CommandConfiguration{Repository: "octo/tasks"},
			expectedOutput: "skipped: token not set\n",
		},
		{
			name:           "missing repository",
			environment:    map[string]string{"GITHUB_TOKEN": "secret"},
			configuration:  todosync.CommandConfiguration{},
			expectedOutput: "skipped: repository not set\n",
		},
		{
			name:           "remote discovery failure",
			environment:    map[string]string{"GH_TOKEN": "secret"},
			configuration:  todosync.CommandConfiguration{RepositoryFromRemote: true},
			gitError:       errors.New("no such remote"),
			expectedOutput: "skipped: repository not set\n",
			expectGit:      true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			executor := &stubCommandExecutor{gitError: testCase.gitError}
			builder := &todosync.CommandBuilder{
				ConfigurationProvider: func() todosync.CommandConfiguration { return testCase.configuration },
				Executor:              executor,
				EnvironmentLookup:     environmentFrom(testCase.environment),
				WorkingDirectory:      subTest.TempDir(),
			}

			output, executionError := runSyncCommand(subTest, builder)
			require.NoError(subTest, executionError)
			require.Equal(subTest, testCase.expectedOutput, output)
			require.Empty(subTest, executor.gitHubCommands)
			require.Equal(subTest, testCase.expectGit, len(executor.gitCommands) > 0)
		})
	}
}

func TestSyncCommandSkipsMissingChecklist(testInstance *testing.T) {
	executor := &stubCommandExecutor{}
	builder := &todosync.CommandBuilder{
		ConfigurationProvider: func() todosync.CommandConfiguration { return todosync.DefaultCommandConfiguration() },
		Executor:              executor,
		EnvironmentLookup:     environmentFrom(map[string]string{"GITHUB_TOKEN": "secret"}),
		WorkingDirectory:      testInstance.TempDir(),
	}

	output, executionError := runSyncCommand(testInstance, builder, "--repository", "octo/tasks")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "skipped: checklist not found\n", output)
	require.Empty(testInstance, executor.gitHubCommands)
}

func TestSyncCommandRunsAgainstDiscoveredRepository(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "TODO.md"), []byte("- [ ] Add retry logic\n- [ ] Fix parser #42\n"), 0o644))

	executor := &stubCommandExecutor{
		gitOutput:     "git@github.com:octo/tasks.git\n",
		createdNumber: 101,
		openIssues:    `[{"number":42,"title":"Fix parser","body":"parser","state":"open"},{"number":7,"title":"Write docs","body":null,"state":"open"},{"number":8,"title":"A PR","state":"open","pull_request":{}}]`,
		issues: map[string]string{
			"repos/octo/tasks/issues/42":  `{"number":42,"title":"Fix parser","body":"parser","state":"closed"}`,
			"repos/octo/tasks/issues/7":   `{"number":7,"title":"Write docs","body":null,"state":"open"}`,
			"repos/octo/tasks/issues/101": `{"number":101,"title":"Add retry logic","body":"Created from TODO.md","state":"open"}`,
		},
	}
	configuration := todosync.DefaultCommandConfiguration()
	configuration.RepositoryFromRemote = true
	configuration.IssueCacheSize = 0

	builder := &todosync.CommandBuilder{
		ConfigurationProvider: func() todosync.CommandConfiguration { return configuration },
		Executor:              executor,
		EnvironmentLookup:     environmentFrom(map[string]string{"GH_TOKEN": "secret"}),
		WorkingDirectory:      workingDirectory,
	}

	output, executionError := runSyncCommand(testInstance, builder)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "created: 1\nappended: 1\ncompleted: 1\nmirrored: 4\nfailed: 0\n", output)

	document, readError := os.ReadFile(filepath.Join(workingDirectory, "TODO.md"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "- [ ] Add retry logic #101\n\n- [ ] Write docs #7\n\n### Completed ✓\n- [x] Fix parser #42", string(document))

	require.Equal(testInstance, []string{"remote", "get-url", "origin"}, executor.gitCommands[0].Arguments)
	for _, details := range executor.gitHubCommands {
		require.Equal(testInstance, "secret", details.EnvironmentVariables["GH_TOKEN"])
	}

	mirrorEntries, listError := os.ReadDir(filepath.Join(workingDirectory, ".todo"))
	require.NoError(testInstance, listError)
	require.Len(testInstance, mirrorEntries, 3)
}

func TestSyncCommandDryRunPrintsDocument(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	checklistPath := filepath.Join(workingDirectory, "notes", "tasks.md")
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(checklistPath), 0o755))
	require.NoError(testInstance, os.WriteFile(checklistPath, []byte("- [ ] Add retry logic"), 0o644))

	executor := &stubCommandExecutor{openIssues: `[]`}
	builder := &todosync.CommandBuilder{
		ConfigurationProvider: func() todosync.CommandConfiguration { return todosync.DefaultCommandConfiguration() },
		Executor:              executor,
		EnvironmentLookup:     environmentFrom(map[string]string{"GITHUB_TOKEN": "secret"}),
		WorkingDirectory:      workingDirectory,
	}

	output, executionError := runSyncCommand(testInstance, builder, "--dry-run", "--checklist", "notes/tasks.md", "--repository", "https://github.com/octo/tasks.git")
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "- [ ] Add retry logic\n\n### Completed ✓\ncreated: 0\nappended: 0\ncompleted: 0\nmirrored: 0\nplanned: 1\nfailed: 0\n", output)

	document, readError := os.ReadFile(checklistPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "- [ ] Add retry logic", string(document))
	_, statError := os.Stat(filepath.Join(workingDirectory, ".todo"))
	require.True(testInstance, os.IsNotExist(statError))
	require.Len(testInstance, executor.gitHubCommands, 1)
}

func TestSyncCommandRejectsInvalidInput(testInstance *testing.T) {
	builder := &todosync.CommandBuilder{
		Executor:          &stubCommandExecutor{},
		EnvironmentLookup: environmentFrom(map[string]string{"GITHUB_TOKEN": "secret"}),
		WorkingDirectory:  testInstance.TempDir(),
	}

	_, argumentsError := runSyncCommand(testInstance, builder, "extra")
	require.Error(testInstance, argumentsError)

	_, repositoryError := runSyncCommand(testInstance, builder, "--repository", "not a repository")
	require.ErrorContains(testInstance, repositoryError, "invalid repository")
}

func TestSyncCommandFailsWhenListingFails(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "TODO.md"), []byte("plain text\n"), 0o644))

	builder := &todosync.CommandBuilder{
		Executor:          &stubCommandExecutor{openIssues: "not json"},
		EnvironmentLookup: environmentFrom(map[string]string{"GITHUB_TOKEN": "secret"}),
		WorkingDirectory:  workingDirectory,
	}

	_, executionError := runSyncCommand(testInstance, builder, "--repository", "octo/tasks")
	require.ErrorContains(testInstance, executionError, "todo sync failed")

	document, readError := os.ReadFile(filepath.Join(workingDirectory, "TODO.md"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "plain text\n", string(document))
}

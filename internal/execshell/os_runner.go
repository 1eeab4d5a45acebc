package execshell

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentSeparatorConstant  = "="
	gitTerminalPromptEnvironmentConstant    = "GIT_TERMINAL_PROMPT"
	githubPromptDisabledEnvironmentConstant = "GH_PROMPT_DISABLED"
	gitTerminalPromptDisabledValueConstant  = "0"
	githubPromptDisabledValueConstant       = "1"
)

// nonInteractiveEnvironment keeps git and gh from blocking on credential prompts.
var nonInteractiveEnvironment = map[string]string{
	gitTerminalPromptEnvironmentConstant:    gitTerminalPromptDisabledValueConstant,
	githubPromptDisabledEnvironmentConstant: githubPromptDisabledValueConstant,
}

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	environmentProvider func() []string
}

// NewOSCommandRunner constructs a runner backed by os/exec that inherits the process environment.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{environmentProvider: os.Environ}
}

// Run executes the supplied command. Non-zero exit codes are reported through ExecutionResult, not as errors.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}
	executable.Env = runner.buildEnvironment(command.Details.EnvironmentVariables)

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	result := ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
	}
	if runError == nil {
		return result, nil
	}

	exitError := &exec.ExitError{}
	if errors.As(runError, &exitError) && executionContext.Err() == nil {
		result.ExitCode = exitError.ExitCode()
		return result, nil
	}
	return ExecutionResult{}, runError
}

// buildEnvironment layers the non-interactive defaults and the command overrides on top of the inherited
// environment. os/exec keeps the last assignment for duplicated keys.
func (runner *OSCommandRunner) buildEnvironment(overrides map[string]string) []string {
	environmentProvider := runner.environmentProvider
	if environmentProvider == nil {
		environmentProvider = os.Environ
	}

	mergedEnvironment := append([]string{}, environmentProvider()...)
	mergedEnvironment = append(mergedEnvironment, formatAssignments(nonInteractiveEnvironment)...)
	mergedEnvironment = append(mergedEnvironment, formatAssignments(overrides)...)
	return mergedEnvironment
}

func formatAssignments(variables map[string]string) []string {
	variableNames := make([]string, 0, len(variables))
	for variableName := range variables {
		variableNames = append(variableNames, variableName)
	}
	sort.Strings(variableNames)

	assignments := make([]string, 0, len(variableNames))
	for _, variableName := range variableNames {
		assignments = append(assignments, variableName+environmentAssignmentSeparatorConstant+variables[variableName])
	}
	return assignments
}

package execshell

import (
	"fmt"
	"strconv"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitRemoteSubcommandNameConstant       = "remote"
	gitRemoteGetURLSubcommandNameConstant = "get-url"
)

const (
	gitRemoteLookupStartTemplateConstant            = "Checking %s remote for %s"
	gitRemoteLookupSuccessTemplateConstant          = "%s remote for %s points to %s"
	gitRemoteLookupFailureTemplateConstant          = "Failed to read %s remote for %s (exit code %d%s)"
	gitRemoteLookupExecutionFailureTemplateConstant = "Unable to read %s remote for %s: %s"
)

const (
	githubAPICommandNameConstant           = "api"
	githubMethodFlagConstant               = "-X"
	githubRepositoryEndpointPrefixConstant = "repos/"
	githubIssuesEndpointSegmentConstant    = "issues"
	githubEndpointQuerySeparatorConstant   = "?"
	githubEndpointPathSeparatorConstant    = "/"
	githubIssueCreateMethodConstant        = "POST"
	githubRepositoryEndpointMinimumParts   = 3
)

const (
	githubIssueCreateStartTemplateConstant            = "Creating issue in %s"
	githubIssueCreateSuccessTemplateConstant          = "Created issue in %s"
	githubIssueCreateFailureTemplateConstant          = "Failed to create issue in %s (exit code %d%s)"
	githubIssueCreateExecutionFailureTemplateConstant = "Unable to create issue in %s: %s"
	githubIssueListStartTemplateConstant              = "Listing open issues in %s"
	githubIssueListSuccessTemplateConstant            = "Listed open issues in %s"
	githubIssueListFailureTemplateConstant            = "Failed to list open issues in %s (exit code %d%s)"
	githubIssueListExecutionFailureTemplateConstant   = "Unable to list open issues in %s: %s"
	githubIssueViewStartTemplateConstant              = "Fetching issue #%d from %s"
	githubIssueViewSuccessTemplateConstant            = "Fetched issue #%d from %s"
	githubIssueViewFailureTemplateConstant            = "Failed to fetch issue #%d from %s (exit code %d%s)"
	githubIssueViewExecutionFailureTemplateConstant   = "Unable to fetch issue #%d from %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// issueEndpoint is the parsed form of a repos/{owner}/{repo}/issues[/{number}] endpoint.
type issueEndpoint struct {
	repository  string
	issueNumber int
}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandGitHub:
		return formatter.describeGitHubMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != gitRemoteSubcommandNameConstant || strings.TrimSpace(arguments[1]) != gitRemoteGetURLSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteLookupStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteLookupSuccessTemplateConstant, remoteName, workingDirectory, formatter.ensureValue(result.StandardOutput))
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteLookupFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteLookupExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitHubMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) < 2 || strings.TrimSpace(arguments[0]) != githubAPICommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	endpoint, endpointRecognized := formatter.parseIssueEndpoint(arguments[1])
	if !endpointRecognized {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	method := strings.ToUpper(strings.TrimSpace(findFlagValue(arguments, githubMethodFlagConstant)))
	standardErrorSuffix := formatter.formatStandardErrorSuffix(result.StandardError)

	switch {
	case method == githubIssueCreateMethodConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubIssueCreateStartTemplateConstant, endpoint.repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubIssueCreateSuccessTemplateConstant, endpoint.repository)
		case messageStageFailure:
			return fmt.Sprintf(githubIssueCreateFailureTemplateConstant, endpoint.repository, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubIssueCreateExecutionFailureTemplateConstant, endpoint.repository, formatter.describeFailure(failure))
		}
	case endpoint.issueNumber > 0:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubIssueViewStartTemplateConstant, endpoint.issueNumber, endpoint.repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubIssueViewSuccessTemplateConstant, endpoint.issueNumber, endpoint.repository)
		case messageStageFailure:
			return fmt.Sprintf(githubIssueViewFailureTemplateConstant, endpoint.issueNumber, endpoint.repository, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubIssueViewExecutionFailureTemplateConstant, endpoint.issueNumber, endpoint.repository, formatter.describeFailure(failure))
		}
	default:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(githubIssueListStartTemplateConstant, endpoint.repository)
		case messageStageSuccess:
			return fmt.Sprintf(githubIssueListSuccessTemplateConstant, endpoint.repository)
		case messageStageFailure:
			return fmt.Sprintf(githubIssueListFailureTemplateConstant, endpoint.repository, result.ExitCode, standardErrorSuffix)
		case messageStageExecutionFailure:
			return fmt.Sprintf(githubIssueListExecutionFailureTemplateConstant, endpoint.repository, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) parseIssueEndpoint(rawEndpoint string) (issueEndpoint, bool) {
	trimmedEndpoint := strings.TrimSpace(rawEndpoint)
	if !strings.HasPrefix(trimmedEndpoint, githubRepositoryEndpointPrefixConstant) {
		return issueEndpoint{}, false
	}
	if queryIndex := strings.Index(trimmedEndpoint, githubEndpointQuerySeparatorConstant); queryIndex >= 0 {
		trimmedEndpoint = trimmedEndpoint[:queryIndex]
	}

	parts := strings.Split(strings.TrimPrefix(trimmedEndpoint, githubRepositoryEndpointPrefixConstant), githubEndpointPathSeparatorConstant)
	if len(parts) < githubRepositoryEndpointMinimumParts || parts[2] != githubIssuesEndpointSegmentConstant {
		return issueEndpoint{}, false
	}

	endpoint := issueEndpoint{repository: strings.Join(parts[:2], githubEndpointPathSeparatorConstant)}
	if len(parts) > githubRepositoryEndpointMinimumParts {
		issueNumber, parseError := strconv.Atoi(parts[3])
		if parseError != nil {
			return issueEndpoint{}, false
		}
		endpoint.issueNumber = issueNumber
	}
	return endpoint, true
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func findFlagValue(arguments []string, flag string) string {
	for argumentIndex := 0; argumentIndex < len(arguments)-1; argumentIndex++ {
		if strings.TrimSpace(arguments[argumentIndex]) == flag {
			return arguments[argumentIndex+1]
		}
	}
	return emptyStringConstant
}

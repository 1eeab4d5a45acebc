package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/todosync/internal/execshell"
)

const (
	gitRemoteSubcommandConstant       = "remote"
	gitRemoteGetURLSubcommandConstant = "get-url"
	defaultRemoteNameConstant         = "origin"
	gitExecutorNotConfiguredMessage   = "git executor not configured"
	remoteLookupErrorTemplateConstant = "failed to read %s remote: %w"
	remoteParseErrorTemplateConstant  = "failed to parse %s remote: %w"
)

// ErrGitExecutorNotConfigured indicates the resolver was constructed without an executor.
var ErrGitExecutorNotConfigured = errors.New(gitExecutorNotConfiguredMessage)

// GitExecutor is the subset of execshell.ShellExecutor used for remote lookups.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RemoteResolver reads the owner/name of a repository from one of its git remotes.
type RemoteResolver struct {
	executor GitExecutor
}

// NewRemoteResolver constructs a RemoteResolver.
func NewRemoteResolver(executor GitExecutor) (*RemoteResolver, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RemoteResolver{executor: executor}, nil
}

// ResolveRepository returns owner/name for the remote configured in the working directory.
func (resolver *RemoteResolver) ResolveRepository(executionContext context.Context, workingDirectory string, remoteName string) (string, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = defaultRemoteNameConstant
	}

	executionResult, executionError := resolver.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, trimmedRemoteName},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return "", fmt.Errorf(remoteLookupErrorTemplateConstant, trimmedRemoteName, executionError)
	}

	remote, parseError := ParseRemoteURL(executionResult.StandardOutput)
	if parseError != nil {
		return "", fmt.Errorf(remoteParseErrorTemplateConstant, trimmedRemoteName, parseError)
	}
	return remote.NameWithOwner(), nil
}

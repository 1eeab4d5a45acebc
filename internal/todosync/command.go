package todosync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/todosync/internal/checklist"
	"github.com/temirov/todosync/internal/execshell"
	"github.com/temirov/todosync/internal/filesystem"
	"github.com/temirov/todosync/internal/githubauth"
	"github.com/temirov/todosync/internal/githubcli"
	"github.com/temirov/todosync/internal/gitrepo"
	"github.com/temirov/todosync/internal/mirror"
	pathutils "github.com/temirov/todosync/internal/utils/path"
)

const (
	commandUseConstant                    = "sync"
	commandShortDescriptionConstant       = "Synchronize the TODO checklist with GitHub issues"
	commandLongDescriptionConstant        = "sync creates issues for new unchecked items, appends entries for open issues missing from the checklist, moves closed issues under the completed heading, and mirrors every referenced issue body into the mirror directory."
	commandExecutionErrorTemplateConstant = "todo sync failed: %w"
	unexpectedArgumentsMessageConstant    = "sync does not accept positional arguments"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Report planned changes and print the resulting checklist without writing anything"
	flagChecklistNameConstant             = "checklist"
	flagChecklistDescriptionConstant      = "Path to the checklist document"
	flagMirrorDirectoryNameConstant       = "mirror-dir"
	flagMirrorDirectoryDescription        = "Directory receiving mirrored issue bodies"
	flagRepositoryNameConstant            = "repository"
	flagRepositoryDescriptionConstant     = "GitHub repository in owner/name form"
	tokenMissingMessageConstant           = "GitHub token not set, skipping"
	repositoryMissingMessageConstant      = "GitHub repository not set, skipping"
	remoteDiscoveryFailedMessageConstant  = "Repository discovery from git remote failed"
	tokenResolvedMessageConstant          = "GitHub token resolved"
	tokenSourceFieldNameConstant          = "token_source"
	remoteNameFieldNameConstant           = "remote_name"
	tokenMissingReasonConstant            = "token not set"
	repositoryMissingReasonConstant       = "repository not set"
	skippedOutputTemplateConstant         = "skipped: %s\n"
	repositoryErrorTemplateConstant       = "invalid repository: %w"
	trailingNewlineConstant               = "\n"
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the sync configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandExecutor runs git and gh processes.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandBuilder assembles the Cobra command for checklist synchronization.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	Executor              CommandExecutor
	FileSystem            filesystem.FileSystem
	EnvironmentLookup     githubauth.EnvironmentLookup
	WorkingDirectory      string
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)
	command.Flags().String(flagChecklistNameConstant, "", flagChecklistDescriptionConstant)
	command.Flags().String(flagMirrorDirectoryNameConstant, "", flagMirrorDirectoryDescription)
	command.Flags().String(flagRepositoryNameConstant, "", flagRepositoryDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	configuration := builder.resolveConfiguration(command)
	logger := builder.resolveLogger()
	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	token, tokenFound := githubauth.ResolveToken(builder.EnvironmentLookup)
	if !tokenFound {
		logger.Info(tokenMissingMessageConstant)
		return writeSkipped(command.OutOrStdout(), tokenMissingReasonConstant)
	}
	logger.Debug(tokenResolvedMessageConstant, zap.String(tokenSourceFieldNameConstant, token.Source))

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repository, repositoryError := builder.resolveRepository(executionContext, logger, executor, configuration)
	if repositoryError != nil {
		return repositoryError
	}
	if len(repository) == 0 {
		logger.Info(repositoryMissingMessageConstant)
		return writeSkipped(command.OutOrStdout(), repositoryMissingReasonConstant)
	}

	service, serviceError := builder.buildService(logger, executor, token, configuration)
	if serviceError != nil {
		return serviceError
	}

	result, syncError := service.Sync(executionContext, SyncOptions{
		Repository:       repository,
		DefaultIssueBody: configuration.DefaultIssueBody,
		CompletedMarker:  configuration.CompletedMarker,
		CompletedHeading: configuration.CompletedHeading,
		DryRun:           configuration.DryRun,
	})
	if syncError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, syncError)
	}

	return writeResult(command.OutOrStdout(), result)
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command.Flags().Changed(flagDryRunNameConstant) {
		configuration.DryRun, _ = command.Flags().GetBool(flagDryRunNameConstant)
	}
	if command.Flags().Changed(flagChecklistNameConstant) {
		configuration.ChecklistPath, _ = command.Flags().GetString(flagChecklistNameConstant)
	}
	if command.Flags().Changed(flagMirrorDirectoryNameConstant) {
		configuration.MirrorDirectory, _ = command.Flags().GetString(flagMirrorDirectoryNameConstant)
	}
	if command.Flags().Changed(flagRepositoryNameConstant) {
		configuration.Repository, _ = command.Flags().GetString(flagRepositoryNameConstant)
	}

	return configuration.sanitize()
}

// resolveRepository returns owner/name, or an empty string when nothing is configured and discovery is off or fails.
func (builder *CommandBuilder) resolveRepository(executionContext context.Context, logger *zap.Logger, executor CommandExecutor, configuration CommandConfiguration) (string, error) {
	if len(configuration.Repository) > 0 {
		repository, parseError := gitrepo.ParseRepositoryIdentifier(configuration.Repository)
		if parseError != nil {
			return "", fmt.Errorf(repositoryErrorTemplateConstant, parseError)
		}
		return repository, nil
	}

	if !configuration.RepositoryFromRemote {
		return "", nil
	}

	resolver, resolverError := gitrepo.NewRemoteResolver(executor)
	if resolverError != nil {
		return "", resolverError
	}
	repository, discoveryError := resolver.ResolveRepository(executionContext, builder.WorkingDirectory, configuration.RemoteName)
	if discoveryError != nil {
		logger.Warn(remoteDiscoveryFailedMessageConstant,
			zap.String(remoteNameFieldNameConstant, configuration.RemoteName),
			zap.Error(discoveryError),
		)
		return "", nil
	}
	return repository, nil
}

func (builder *CommandBuilder) buildService(logger *zap.Logger, executor CommandExecutor, token githubauth.Token, configuration CommandConfiguration) (*Service, error) {
	client, clientError := githubcli.NewClient(executor,
		githubcli.WithAuthenticationToken(token.Value),
		githubcli.WithRequestsPerSecond(configuration.RequestsPerSecond),
	)
	if clientError != nil {
		return nil, clientError
	}

	fileSystem := builder.FileSystem
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	pathResolver := pathutils.NewResolver(builder.WorkingDirectory)

	checklistStore, checklistError := checklist.NewStore(fileSystem, pathResolver.Resolve(configuration.ChecklistPath))
	if checklistError != nil {
		return nil, checklistError
	}
	mirrorStore, mirrorError := mirror.NewStore(fileSystem, pathResolver.Resolve(configuration.MirrorDirectory))
	if mirrorError != nil {
		return nil, mirrorError
	}
	issueCache, cacheError := NewIssueCache(configuration.IssueCacheSize)
	if cacheError != nil {
		return nil, cacheError
	}

	return NewService(ServiceDependencies{
		Logger:     logger,
		Tracker:    client,
		Mirror:     mirrorStore,
		Checklist:  checklistStore,
		IssueCache: issueCache,
	})
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}

func writeSkipped(writer io.Writer, reason string) error {
	_, writeError := fmt.Fprintf(writer, skippedOutputTemplateConstant, reason)
	return writeError
}

func writeResult(writer io.Writer, result Result) error {
	if result.Skipped() {
		return writeSkipped(writer, result.SkipReason)
	}
	if result.DryRun {
		document := result.Document
		if !strings.HasSuffix(document, trailingNewlineConstant) {
			document += trailingNewlineConstant
		}
		if _, writeError := io.WriteString(writer, document); writeError != nil {
			return writeError
		}
	}
	return result.WriteSummary(writer)
}

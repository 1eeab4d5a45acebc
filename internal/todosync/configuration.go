package todosync

import "strings"

const (
	configurationKeySeparatorConstant     = "."
	checklistPathKeyConstant              = "checklist_path"
	mirrorDirectoryKeyConstant            = "mirror_directory"
	repositoryKeyConstant                 = "repository"
	repositoryFromRemoteKeyConstant       = "repository_from_remote"
	remoteNameKeyConstant                 = "remote_name"
	defaultIssueBodyKeyConstant           = "default_issue_body"
	completedMarkerKeyConstant            = "completed_marker"
	completedHeadingKeyConstant           = "completed_heading"
	requestsPerSecondKeyConstant          = "requests_per_second"
	issueCacheSizeKeyConstant             = "issue_cache_size"
	dryRunKeyConstant                     = "dry_run"
	defaultChecklistPathConstant          = "TODO.md"
	defaultMirrorDirectoryConstant        = ".todo"
	defaultRemoteNameConstant             = "origin"
	defaultIssueBodyConstant              = "Created from TODO.md"
	defaultCompletedMarkerConstant        = "### Completed"
	defaultCompletedHeadingConstant       = "### Completed ✓"
	defaultIssueCacheSizeConstant         = 256
	repositoryEnvironmentVariableConstant = "GITHUB_REPOSITORY"
)

// RepositoryEnvironmentVariable is honoured for the repository when no prefixed override is set.
const RepositoryEnvironmentVariable = repositoryEnvironmentVariableConstant

// CommandConfiguration captures configuration values for the sync command.
type CommandConfiguration struct {
	ChecklistPath        string  `mapstructure:"checklist_path"`
	MirrorDirectory      string  `mapstructure:"mirror_directory"`
	Repository           string  `mapstructure:"repository"`
	RepositoryFromRemote bool    `mapstructure:"repository_from_remote"`
	RemoteName           string  `mapstructure:"remote_name"`
	DefaultIssueBody     string  `mapstructure:"default_issue_body"`
	CompletedMarker      string  `mapstructure:"completed_marker"`
	CompletedHeading     string  `mapstructure:"completed_heading"`
	RequestsPerSecond    float64 `mapstructure:"requests_per_second"`
	IssueCacheSize       int     `mapstructure:"issue_cache_size"`
	DryRun               bool    `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for the sync command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ChecklistPath:        defaultChecklistPathConstant,
		MirrorDirectory:      defaultMirrorDirectoryConstant,
		Repository:           "",
		RepositoryFromRemote: false,
		RemoteName:           defaultRemoteNameConstant,
		DefaultIssueBody:     defaultIssueBodyConstant,
		CompletedMarker:      defaultCompletedMarkerConstant,
		CompletedHeading:     defaultCompletedHeadingConstant,
		RequestsPerSecond:    0,
		IssueCacheSize:       defaultIssueCacheSizeConstant,
		DryRun:               false,
	}
}

// DefaultConfigurationValues flattens the defaults into Viper keys under sectionKey.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := sectionKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + checklistPathKeyConstant:        defaults.ChecklistPath,
		prefix + mirrorDirectoryKeyConstant:      defaults.MirrorDirectory,
		prefix + repositoryKeyConstant:           defaults.Repository,
		prefix + repositoryFromRemoteKeyConstant: defaults.RepositoryFromRemote,
		prefix + remoteNameKeyConstant:           defaults.RemoteName,
		prefix + defaultIssueBodyKeyConstant:     defaults.DefaultIssueBody,
		prefix + completedMarkerKeyConstant:      defaults.CompletedMarker,
		prefix + completedHeadingKeyConstant:     defaults.CompletedHeading,
		prefix + requestsPerSecondKeyConstant:    defaults.RequestsPerSecond,
		prefix + issueCacheSizeKeyConstant:       defaults.IssueCacheSize,
		prefix + dryRunKeyConstant:               defaults.DryRun,
	}
}

// RepositoryConfigurationKey returns the Viper key holding the repository under sectionKey.
func RepositoryConfigurationKey(sectionKey string) string {
	return sectionKey + configurationKeySeparatorConstant + repositoryKeyConstant
}

// sanitize trims values and restores defaults for blank fields the sync cannot run without.
// A heading that the marker would not recognize is replaced by the marker itself.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.ChecklistPath = valueOrDefault(configuration.ChecklistPath, defaults.ChecklistPath)
	sanitized.MirrorDirectory = valueOrDefault(configuration.MirrorDirectory, defaults.MirrorDirectory)
	sanitized.Repository = strings.TrimSpace(configuration.Repository)
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.CompletedMarker = valueOrDefault(configuration.CompletedMarker, defaults.CompletedMarker)
	sanitized.CompletedHeading = strings.TrimSpace(configuration.CompletedHeading)
	if !strings.HasPrefix(sanitized.CompletedHeading, sanitized.CompletedMarker) {
		sanitized.CompletedHeading = sanitized.CompletedMarker
	}
	if sanitized.RequestsPerSecond < 0 {
		sanitized.RequestsPerSecond = 0
	}
	if sanitized.IssueCacheSize < 0 {
		sanitized.IssueCacheSize = 0
	}

	return sanitized
}

func valueOrDefault(value string, fallback string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallback
	}
	return trimmedValue
}

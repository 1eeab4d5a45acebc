package todosync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/todosync/internal/checklist"
	"github.com/temirov/todosync/internal/githubcli"
)

const (
	repositoryFieldNameConstant          = "repository"
	checklistPathFieldNameConstant       = "checklist_path"
	issueNumberFieldNameConstant         = "issue_number"
	titleFieldNameConstant               = "title"
	passFieldNameConstant                = "pass"
	mirrorPathFieldNameConstant          = "mirror_path"
	createdCountFieldNameConstant        = "created"
	appendedCountFieldNameConstant       = "appended"
	completedCountFieldNameConstant      = "completed"
	mirroredCountFieldNameConstant       = "mirrored"
	failedCountFieldNameConstant         = "failed"
	dryRunFieldNameConstant              = "dry_run"
	checklistMissingMessageConstant      = "Checklist not found, skipping"
	checklistMissingReasonConstant       = "checklist not found"
	plannedIssueMessageConstant          = "Would create issue"
	createdIssueMessageConstant          = "Created issue"
	appendedIssueMessageConstant         = "Appended open issue"
	completedIssueMessageConstant        = "Moved closed issue to completed"
	issueCreationFailedMessageConstant   = "Issue creation failed"
	issueFetchFailedMessageConstant      = "Issue fetch failed"
	mirrorWriteFailedMessageConstant     = "Mirror write failed"
	mirrorWriteMessageConstant           = "Mirrored issue body"
	syncCompletedMessageConstant         = "Checklist synchronized"
	dryRunCompletedMessageConstant       = "Checklist dry run completed"
	trackerMissingMessageConstant        = "issue tracker not configured"
	mirrorMissingMessageConstant         = "mirror writer not configured"
	checklistStoreMissingMessageConstant = "checklist store not configured"
	repositoryRequiredMessageConstant    = "repository must be provided"
	markerRequiredMessageConstant        = "completed marker must be provided"
	checklistLoadErrorTemplateConstant   = "unable to load checklist: %w"
	checklistSaveErrorTemplateConstant   = "unable to save checklist: %w"
	openIssuesListErrorTemplateConstant  = "unable to list open issues: %w"
	syncInterruptedErrorTemplateConstant = "sync interrupted during %s: %w"
	invalidInputErrorTemplateConstant    = "%s: %s"
	completedMarkerFieldNameConstant     = "completed_marker"
	repositoryOptionFieldNameConstant    = "repository"
)

// InvalidInputError describes sync option validation failures.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

var (
	// ErrIssueTrackerNotConfigured indicates the service was constructed without a tracker.
	ErrIssueTrackerNotConfigured = errors.New(trackerMissingMessageConstant)
	// ErrMirrorWriterNotConfigured indicates the service was constructed without a mirror writer.
	ErrMirrorWriterNotConfigured = errors.New(mirrorMissingMessageConstant)
	// ErrChecklistStoreNotConfigured indicates the service was constructed without a checklist store.
	ErrChecklistStoreNotConfigured = errors.New(checklistStoreMissingMessageConstant)
)

// IssueTracker is the subset of githubcli.Client the reconciler consumes.
type IssueTracker interface {
	CreateIssue(executionContext context.Context, repository string, title string, body string) (githubcli.Issue, error)
	ListOpenIssues(executionContext context.Context, repository string) ([]githubcli.Issue, error)
	GetIssue(executionContext context.Context, repository string, issueNumber int) (githubcli.Issue, error)
}

// MirrorWriter persists issue bodies.
type MirrorWriter interface {
	Write(issueNumber int, title string, body string) (string, error)
}

// ChecklistStore loads and saves the checklist document.
type ChecklistStore interface {
	Path() string
	Load() ([]checklist.Line, bool, error)
	Save(lines []checklist.Line) error
}

// ServiceDependencies describes required collaborators for synchronization.
type ServiceDependencies struct {
	Logger    *zap.Logger
	Tracker   IssueTracker
	Mirror    MirrorWriter
	Checklist ChecklistStore
	// IssueCache is optional; without it every referenced issue is fetched once per line.
	IssueCache *IssueCache
}

// SyncOptions configures one synchronization run.
type SyncOptions struct {
	Repository       string
	DefaultIssueBody string
	CompletedMarker  string
	CompletedHeading string
	DryRun           bool
}

// Service reconciles the checklist with the issue tracker.
type Service struct {
	logger     *zap.Logger
	tracker    IssueTracker
	mirror     MirrorWriter
	checklist  ChecklistStore
	issueCache *IssueCache
}

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Tracker == nil {
		return nil, ErrIssueTrackerNotConfigured
	}
	if dependencies.Mirror == nil {
		return nil, ErrMirrorWriterNotConfigured
	}
	if dependencies.Checklist == nil {
		return nil, ErrChecklistStoreNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:     logger,
		tracker:    dependencies.Tracker,
		mirror:     dependencies.Mirror,
		checklist:  dependencies.Checklist,
		issueCache: dependencies.IssueCache,
	}, nil
}

// Sync loads the checklist, runs the three passes in order, and writes the document once at the end.
// Per-item failures are recorded in the Result; only a failed open-issue listing, a cancelled
// context, or document I/O errors are returned.
func (service *Service) Sync(executionContext context.Context, options SyncOptions) (Result, error) {
	normalizedOptions, validationError := options.normalize()
	if validationError != nil {
		return Result{}, validationError
	}

	result := Result{
		Repository:    normalizedOptions.Repository,
		ChecklistPath: service.checklist.Path(),
		DryRun:        normalizedOptions.DryRun,
	}

	originalLines, exists, loadError := service.checklist.Load()
	if loadError != nil {
		return result, fmt.Errorf(checklistLoadErrorTemplateConstant, loadError)
	}
	if !exists {
		service.logger.Info(checklistMissingMessageConstant, zap.String(checklistPathFieldNameConstant, result.ChecklistPath))
		result.SkipReason = checklistMissingReasonConstant
		return result, nil
	}

	service.issueCache.Purge()

	lines, creationOutcomes := service.CreateIssuesForNewTasks(executionContext, normalizedOptions, originalLines)
	result.record(creationOutcomes)
	if contextError := executionContext.Err(); contextError != nil {
		return result, fmt.Errorf(syncInterruptedErrorTemplateConstant, PassCreateIssues, contextError)
	}

	lines, appendOutcomes, listError := service.EnsureOpenIssueEntries(executionContext, normalizedOptions, lines)
	result.record(appendOutcomes)
	if listError != nil {
		return result, listError
	}

	lines, relocationOutcomes := service.RelocateClosedIssues(executionContext, normalizedOptions, lines)
	result.record(relocationOutcomes)
	if contextError := executionContext.Err(); contextError != nil {
		return result, fmt.Errorf(syncInterruptedErrorTemplateConstant, PassRelocateClosed, contextError)
	}

	result.Document = checklist.Render(lines)
	result.DocumentChanged = result.Document != checklist.Render(originalLines)

	if normalizedOptions.DryRun {
		service.logSummary(dryRunCompletedMessageConstant, result)
		return result, nil
	}

	if saveError := service.checklist.Save(lines); saveError != nil {
		return result, fmt.Errorf(checklistSaveErrorTemplateConstant, saveError)
	}
	result.DocumentWritten = true

	service.logSummary(syncCompletedMessageConstant, result)
	return result, nil
}

// CreateIssuesForNewTasks opens an issue for every unchecked line without a reference and rewrites the line to carry it.
// Lines whose creation fails are left unchanged.
func (service *Service) CreateIssuesForNewTasks(executionContext context.Context, options SyncOptions, lines []checklist.Line) ([]checklist.Line, []Outcome) {
	updatedLines := cloneLines(lines)
	outcomes := make([]Outcome, 0)

	for lineIndex, line := range lines {
		if !line.IsUntrackedTask() {
			continue
		}
		title := line.Text

		if options.DryRun {
			service.logger.Info(plannedIssueMessageConstant, zap.String(titleFieldNameConstant, title))
			outcomes = append(outcomes, Outcome{Kind: OutcomePlanned, Pass: PassCreateIssues, Title: title})
			continue
		}

		issue, creationError := service.tracker.CreateIssue(executionContext, options.Repository, title, options.DefaultIssueBody)
		if creationError != nil {
			service.logger.Warn(issueCreationFailedMessageConstant,
				zap.String(titleFieldNameConstant, title),
				zap.Error(creationError),
			)
			outcomes = append(outcomes, Outcome{Kind: OutcomeFailed, Pass: PassCreateIssues, Title: title, Error: creationError})
			continue
		}

		service.issueCache.Add(issue)
		updatedLines[lineIndex] = checklist.NewTaskLine(title, issue.Number)
		service.logger.Info(createdIssueMessageConstant,
			zap.Int(issueNumberFieldNameConstant, issue.Number),
			zap.String(titleFieldNameConstant, title),
		)
		outcomes = append(outcomes, Outcome{Kind: OutcomeCreated, Pass: PassCreateIssues, IssueNumber: issue.Number, Title: title})
		outcomes = append(outcomes, service.writeMirror(PassCreateIssues, issue.Number, issue, options)...)
	}

	return updatedLines, outcomes
}

// EnsureOpenIssueEntries appends an entry for every open issue the checklist does not reference yet.
func (service *Service) EnsureOpenIssueEntries(executionContext context.Context, options SyncOptions, lines []checklist.Line) ([]checklist.Line, []Outcome, error) {
	openIssues, listError := service.tracker.ListOpenIssues(executionContext, options.Repository)
	if listError != nil {
		return lines, nil, fmt.Errorf(openIssuesListErrorTemplateConstant, listError)
	}

	for _, issue := range openIssues {
		service.issueCache.Add(issue)
	}

	updatedLines, outcomes := AppendMissingIssues(lines, openIssues)
	for _, outcome := range outcomes {
		service.logger.Info(appendedIssueMessageConstant,
			zap.Int(issueNumberFieldNameConstant, outcome.IssueNumber),
			zap.String(titleFieldNameConstant, outcome.Title),
		)
	}
	return updatedLines, outcomes, nil
}

// RelocateClosedIssues refreshes the mirror for every referenced issue and moves closed ones beneath the completed marker.
// Lines whose issue cannot be fetched stay in place.
func (service *Service) RelocateClosedIssues(executionContext context.Context, options SyncOptions, lines []checklist.Line) ([]checklist.Line, []Outcome) {
	keptLines := make([]checklist.Line, 0, len(lines))
	completedLines := make([]checklist.Line, 0)
	outcomes := make([]Outcome, 0)

	for _, line := range lines {
		if !line.HasIssueReference {
			keptLines = append(keptLines, line)
			continue
		}

		issue, fetchError := service.fetchIssue(executionContext, options.Repository, line.IssueNumber)
		if fetchError != nil {
			service.logger.Warn(issueFetchFailedMessageConstant,
				zap.Int(issueNumberFieldNameConstant, line.IssueNumber),
				zap.Error(fetchError),
			)
			outcomes = append(outcomes, Outcome{Kind: OutcomeFailed, Pass: PassRelocateClosed, IssueNumber: line.IssueNumber, Title: line.Text, Error: fetchError})
			keptLines = append(keptLines, line)
			continue
		}

		outcomes = append(outcomes, service.writeMirror(PassRelocateClosed, line.IssueNumber, issue, options)...)

		if !issue.IsClosed() {
			keptLines = append(keptLines, line)
			continue
		}

		completedLines = append(completedLines, checklist.NewCompletedLine(issue.Title, line.IssueNumber))
		if line.State != checklist.CheckboxStateChecked {
			service.logger.Info(completedIssueMessageConstant,
				zap.Int(issueNumberFieldNameConstant, line.IssueNumber),
				zap.String(titleFieldNameConstant, issue.Title),
			)
			outcomes = append(outcomes, Outcome{Kind: OutcomeCompleted, Pass: PassRelocateClosed, IssueNumber: line.IssueNumber, Title: issue.Title})
		}
	}

	return SpliceCompleted(keptLines, completedLines, options.CompletedMarker, options.CompletedHeading), outcomes
}

func (service *Service) fetchIssue(executionContext context.Context, repository string, issueNumber int) (githubcli.Issue, error) {
	if cachedIssue, found := service.issueCache.Get(issueNumber); found {
		return cachedIssue, nil
	}
	issue, fetchError := service.tracker.GetIssue(executionContext, repository, issueNumber)
	if fetchError != nil {
		return githubcli.Issue{}, fetchError
	}
	service.issueCache.Add(issue)
	return issue, nil
}

func (service *Service) writeMirror(pass PassName, issueNumber int, issue githubcli.Issue, options SyncOptions) []Outcome {
	if options.DryRun {
		return nil
	}
	mirrorPath, writeError := service.mirror.Write(issueNumber, issue.Title, issue.Body)
	if writeError != nil {
		service.logger.Warn(mirrorWriteFailedMessageConstant,
			zap.Int(issueNumberFieldNameConstant, issueNumber),
			zap.String(passFieldNameConstant, string(pass)),
			zap.Error(writeError),
		)
		return []Outcome{{Kind: OutcomeFailed, Pass: pass, IssueNumber: issueNumber, Title: issue.Title, Error: writeError}}
	}
	service.logger.Debug(mirrorWriteMessageConstant,
		zap.Int(issueNumberFieldNameConstant, issueNumber),
		zap.String(mirrorPathFieldNameConstant, mirrorPath),
	)
	return []Outcome{{Kind: OutcomeMirrored, Pass: pass, IssueNumber: issueNumber, Title: issue.Title, Path: mirrorPath}}
}

func (service *Service) logSummary(message string, result Result) {
	service.logger.Info(message,
		zap.String(repositoryFieldNameConstant, result.Repository),
		zap.String(checklistPathFieldNameConstant, result.ChecklistPath),
		zap.Bool(dryRunFieldNameConstant, result.DryRun),
		zap.Int(createdCountFieldNameConstant, result.Count(OutcomeCreated)),
		zap.Int(appendedCountFieldNameConstant, result.Count(OutcomeAppended)),
		zap.Int(completedCountFieldNameConstant, result.Count(OutcomeCompleted)),
		zap.Int(mirroredCountFieldNameConstant, result.Count(OutcomeMirrored)),
		zap.Int(failedCountFieldNameConstant, result.Count(OutcomeFailed)),
	)
}

func (options SyncOptions) normalize() (SyncOptions, error) {
	normalized := options
	normalized.Repository = strings.TrimSpace(options.Repository)
	if len(normalized.Repository) == 0 {
		return SyncOptions{}, InvalidInputError{FieldName: repositoryOptionFieldNameConstant, Message: repositoryRequiredMessageConstant}
	}
	normalized.CompletedMarker = strings.TrimSpace(options.CompletedMarker)
	if len(normalized.CompletedMarker) == 0 {
		return SyncOptions{}, InvalidInputError{FieldName: completedMarkerFieldNameConstant, Message: markerRequiredMessageConstant}
	}
	normalized.CompletedHeading = strings.TrimSpace(options.CompletedHeading)
	if len(normalized.CompletedHeading) == 0 {
		normalized.CompletedHeading = normalized.CompletedMarker
	}
	return normalized, nil
}

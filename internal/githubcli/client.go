package githubcli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/time/rate"

	"github.com/temirov/todosync/internal/execshell"
)

const (
	apiSubcommandConstant                   = "api"
	methodFlagConstant                      = "-X"
	inputFlagConstant                       = "--input"
	paginateFlagConstant                    = "--paginate"
	stdinReferenceConstant                  = "-"
	acceptHeaderFlagConstant                = "-H"
	acceptHeaderValueConstant               = "Accept: application/vnd.github+json"
	httpMethodPostConstant                  = "POST"
	githubTokenEnvironmentNameConstant      = "GH_TOKEN"
	repositoryFieldNameConstant             = "repository"
	titleFieldNameConstant                  = "title"
	issueNumberFieldNameConstant            = "issue_number"
	requiredValueMessageConstant            = "value required"
	ownerAndNameRequiredMessageConstant     = "expected owner/name"
	positiveValueRequiredMessageConstant    = "positive value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	payloadEncodingErrorTemplateConstant    = "%s payload encoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	repositoryPathSeparatorConstant         = "/"
	issuesEndpointTemplateConstant          = "repos/%s/issues"
	openIssuesEndpointTemplateConstant      = "repos/%s/issues?state=open&per_page=100"
	issueEndpointTemplateConstant           = "repos/%s/issues/%d"
	createIssueOperationNameConstant        = OperationName("CreateIssue")
	listOpenIssuesOperationNameConstant     = OperationName("ListOpenIssues")
	getIssueOperationNameConstant           = OperationName("GetIssue")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// IssueState describes GitHub issue states.
type IssueState string

// Issue state enumerations.
const (
	IssueStateOpen   IssueState = IssueState("open")
	IssueStateClosed IssueState = IssueState("closed")
)

// Issue represents the issue fields todosync reads from GitHub.
type Issue struct {
	Number int
	Title  string
	Body   string
	State  IssueState
}

// IsClosed reports whether the issue has been closed.
func (issue Issue) IsClosed() bool {
	return issue.State == IssueStateClosed
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithAuthenticationToken forwards the token to gh through GH_TOKEN.
func WithAuthenticationToken(token string) ClientOption {
	return func(client *Client) {
		client.authenticationToken = strings.TrimSpace(token)
	}
}

// WithRequestsPerSecond paces tracker requests. Non-positive values disable pacing.
func WithRequestsPerSecond(requestsPerSecond float64) ClientOption {
	return func(client *Client) {
		if requestsPerSecond <= 0 {
			client.requestLimiter = nil
			return
		}
		client.requestLimiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor            GitHubCommandExecutor
	authenticationToken string
	requestLimiter      *rate.Limiter
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// PayloadEncodingError indicates JSON encoding issues.
type PayloadEncodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the encoding failure.
func (encodingError PayloadEncodingError) Error() string {
	return fmt.Sprintf(payloadEncodingErrorTemplateConstant, encodingError.Operation, encodingError.Cause)
}

// Unwrap exposes the underlying error.
func (encodingError PayloadEncodingError) Unwrap() error {
	return encodingError.Cause
}

type issueResponse struct {
	Number      int              `json:"number"`
	Title       string           `json:"title"`
	Body        *string          `json:"body"`
	State       string           `json:"state"`
	PullRequest *json.RawMessage `json:"pull_request,omitempty"`
}

func (response issueResponse) toIssue() Issue {
	issue := Issue{
		Number: response.Number,
		Title:  response.Title,
		State:  IssueState(strings.ToLower(strings.TrimSpace(response.State))),
	}
	if response.Body != nil {
		issue.Body = *response.Body
	}
	return issue
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor, options ...ClientOption) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	client := &Client{executor: executor}
	for _, option := range options {
		if option != nil {
			option(client)
		}
	}
	return client, nil
}

// CreateIssue opens a new issue with the provided title and body.
func (client *Client) CreateIssue(executionContext context.Context, repository string, title string, body string) (Issue, error) {
	repositoryIdentifier, validationError := validateRepository(repository)
	if validationError != nil {
		return Issue{}, validationError
	}

	trimmedTitle := strings.TrimSpace(title)
	if len(trimmedTitle) == 0 {
		return Issue{}, InvalidInputError{FieldName: titleFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payload := struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}{Title: trimmedTitle, Body: body}

	payloadBytes, encodingError := json.Marshal(payload)
	if encodingError != nil {
		return Issue{}, PayloadEncodingError{Operation: createIssueOperationNameConstant, Cause: encodingError}
	}

	commandDetails := client.buildCommandDetails(
		fmt.Sprintf(issuesEndpointTemplateConstant, repositoryIdentifier),
		methodFlagConstant,
		httpMethodPostConstant,
		inputFlagConstant,
		stdinReferenceConstant,
	)
	commandDetails.StandardInput = payloadBytes

	executionResult, executionError := client.execute(executionContext, commandDetails)
	if executionError != nil {
		return Issue{}, OperationError{Operation: createIssueOperationNameConstant, Cause: executionError}
	}

	var response issueResponse
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return Issue{}, ResponseDecodingError{Operation: createIssueOperationNameConstant, Cause: decodingError}
	}

	return response.toIssue(), nil
}

// ListOpenIssues enumerates open issues, excluding pull requests, in the order GitHub returns them.
func (client *Client) ListOpenIssues(executionContext context.Context, repository string) ([]Issue, error) {
	repositoryIdentifier, validationError := validateRepository(repository)
	if validationError != nil {
		return nil, validationError
	}

	commandDetails := client.buildCommandDetails(
		fmt.Sprintf(openIssuesEndpointTemplateConstant, repositoryIdentifier),
		paginateFlagConstant,
	)

	executionResult, executionError := client.execute(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listOpenIssuesOperationNameConstant, Cause: executionError}
	}

	// gh --paginate prints one JSON array per page back to back.
	decoder := json.NewDecoder(bytes.NewReader([]byte(executionResult.StandardOutput)))
	issues := make([]Issue, 0)
	for {
		var page []issueResponse
		decodingError := decoder.Decode(&page)
		if errors.Is(decodingError, io.EOF) {
			break
		}
		if decodingError != nil {
			return nil, ResponseDecodingError{Operation: listOpenIssuesOperationNameConstant, Cause: decodingError}
		}
		for _, issueEntry := range page {
			if issueEntry.PullRequest != nil {
				continue
			}
			issues = append(issues, issueEntry.toIssue())
		}
	}

	return issues, nil
}

// GetIssue retrieves a single issue by number.
func (client *Client) GetIssue(executionContext context.Context, repository string, issueNumber int) (Issue, error) {
	repositoryIdentifier, validationError := validateRepository(repository)
	if validationError != nil {
		return Issue{}, validationError
	}
	if issueNumber <= 0 {
		return Issue{}, InvalidInputError{FieldName: issueNumberFieldNameConstant, Message: positiveValueRequiredMessageConstant}
	}

	commandDetails := client.buildCommandDetails(fmt.Sprintf(issueEndpointTemplateConstant, repositoryIdentifier, issueNumber))

	executionResult, executionError := client.execute(executionContext, commandDetails)
	if executionError != nil {
		return Issue{}, OperationError{Operation: getIssueOperationNameConstant, Cause: executionError}
	}

	var response issueResponse
	if decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response); decodingError != nil {
		return Issue{}, ResponseDecodingError{Operation: getIssueOperationNameConstant, Cause: decodingError}
	}

	return response.toIssue(), nil
}

func (client *Client) buildCommandDetails(endpoint string, additionalArguments ...string) execshell.CommandDetails {
	arguments := []string{apiSubcommandConstant, endpoint}
	arguments = append(arguments, additionalArguments...)
	arguments = append(arguments, acceptHeaderFlagConstant, acceptHeaderValueConstant)

	commandDetails := execshell.CommandDetails{Arguments: arguments}
	if len(client.authenticationToken) > 0 {
		commandDetails.EnvironmentVariables = map[string]string{githubTokenEnvironmentNameConstant: client.authenticationToken}
	}
	return commandDetails
}

func (client *Client) execute(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if client.requestLimiter != nil {
		if waitError := client.requestLimiter.Wait(executionContext); waitError != nil {
			return execshell.ExecutionResult{}, waitError
		}
	}
	return client.executor.ExecuteGitHubCLI(executionContext, details)
}

func validateRepository(repository string) (string, error) {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	segments := strings.Split(repositoryIdentifier, repositoryPathSeparatorConstant)
	if len(segments) != 2 || len(segments[0]) == 0 || len(segments[1]) == 0 {
		return "", InvalidInputError{FieldName: repositoryFieldNameConstant, Message: ownerAndNameRequiredMessageConstant}
	}
	return repositoryIdentifier, nil
}

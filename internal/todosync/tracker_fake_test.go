package todosync_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/temirov/todosync/internal/checklist"
	"github.com/temirov/todosync/internal/githubcli"
)

type fakeTracker struct {
	issues            map[int]githubcli.Issue
	openOrder         []int
	nextNumber        int
	failingTitles     map[string]error
	failingFetches    map[int]error
	listError         error
	createdTitles     []string
	createdBodies     []string
	fetchedNumbers    []int
	listCallCount     int
	cancelAfterCreate context.CancelFunc
}

func newFakeTracker(nextNumber int, issues ...githubcli.Issue) *fakeTracker {
	tracker := &fakeTracker{
		issues:         map[int]githubcli.Issue{},
		nextNumber:     nextNumber,
		failingTitles:  map[string]error{},
		failingFetches: map[int]error{},
	}
	for _, issue := range issues {
		tracker.issues[issue.Number] = issue
		tracker.openOrder = append(tracker.openOrder, issue.Number)
	}
	return tracker
}

func (tracker *fakeTracker) CreateIssue(executionContext context.Context, repository string, title string, body string) (githubcli.Issue, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return githubcli.Issue{}, contextError
	}
	if failure, failing := tracker.failingTitles[title]; failing {
		return githubcli.Issue{}, failure
	}
	issue := githubcli.Issue{Number: tracker.nextNumber, Title: title, Body: body, State: githubcli.IssueStateOpen}
	tracker.nextNumber++
	tracker.issues[issue.Number] = issue
	tracker.openOrder = append(tracker.openOrder, issue.Number)
	tracker.createdTitles = append(tracker.createdTitles, title)
	tracker.createdBodies = append(tracker.createdBodies, body)
	if tracker.cancelAfterCreate != nil {
		tracker.cancelAfterCreate()
	}
	return issue, nil
}

func (tracker *fakeTracker) ListOpenIssues(executionContext context.Context, repository string) ([]githubcli.Issue, error) {
	tracker.listCallCount++
	if tracker.listError != nil {
		return nil, tracker.listError
	}
	openIssues := make([]githubcli.Issue, 0, len(tracker.openOrder))
	for _, issueNumber := range tracker.openOrder {
		issue := tracker.issues[issueNumber]
		if issue.IsClosed() {
			continue
		}
		openIssues = append(openIssues, issue)
	}
	return openIssues, nil
}

func (tracker *fakeTracker) GetIssue(executionContext context.Context, repository string, issueNumber int) (githubcli.Issue, error) {
	tracker.fetchedNumbers = append(tracker.fetchedNumbers, issueNumber)
	if failure, failing := tracker.failingFetches[issueNumber]; failing {
		return githubcli.Issue{}, failure
	}
	issue, exists := tracker.issues[issueNumber]
	if !exists {
		return githubcli.Issue{}, fmt.Errorf("issue #%d not found", issueNumber)
	}
	return issue, nil
}

func (tracker *fakeTracker) close(issueNumber int) {
	issue := tracker.issues[issueNumber]
	issue.State = githubcli.IssueStateClosed
	tracker.issues[issueNumber] = issue
}

type mirrorWrite struct {
	issueNumber int
	title       string
	body        string
}

type recordingMirror struct {
	writes       []mirrorWrite
	failingIssue int
}

func (writer *recordingMirror) Write(issueNumber int, title string, body string) (string, error) {
	if writer.failingIssue == issueNumber {
		return "", errors.New("disk full")
	}
	writer.writes = append(writer.writes, mirrorWrite{issueNumber: issueNumber, title: title, body: body})
	return fmt.Sprintf(".todo/%d.md", issueNumber), nil
}

func (writer *recordingMirror) writtenNumbers() []int {
	issueNumbers := make([]int, 0, len(writer.writes))
	for _, write := range writer.writes {
		issueNumbers = append(issueNumbers, write.issueNumber)
	}
	return issueNumbers
}

type memoryChecklist struct {
	content   string
	exists    bool
	saveCount int
	loadError error
	saveError error
}

func newMemoryChecklist(content string) *memoryChecklist {
	return &memoryChecklist{content: content, exists: true}
}

func (store *memoryChecklist) Path() string {
	return "TODO.md"
}

func (store *memoryChecklist) Load() ([]checklist.Line, bool, error) {
	if store.loadError != nil {
		return nil, false, store.loadError
	}
	if !store.exists {
		return nil, false, nil
	}
	return checklist.Parse(store.content), true, nil
}

func (store *memoryChecklist) Save(lines []checklist.Line) error {
	if store.saveError != nil {
		return store.saveError
	}
	store.saveCount++
	store.content = checklist.Render(lines)
	return nil
}

package todosync

import (
	"github.com/temirov/todosync/internal/checklist"
	"github.com/temirov/todosync/internal/githubcli"
)

// AppendMissingIssues appends "- [ ] <title> #<n>" for every issue no line references yet, in issue order.
func AppendMissingIssues(lines []checklist.Line, issues []githubcli.Issue) ([]checklist.Line, []Outcome) {
	updatedLines := cloneLines(lines)
	outcomes := make([]Outcome, 0)

	for _, issue := range issues {
		if referencesIssue(updatedLines, issue.Number) {
			continue
		}
		updatedLines = append(updatedLines, checklist.NewTaskLine(issue.Title, issue.Number))
		outcomes = append(outcomes, Outcome{
			Kind:        OutcomeAppended,
			Pass:        PassAppendOpen,
			IssueNumber: issue.Number,
			Title:       issue.Title,
		})
	}

	return updatedLines, outcomes
}

// SpliceCompleted inserts completed entries directly beneath the first line starting with marker.
// When no such line exists a blank line and heading are appended first, even if completed is empty.
func SpliceCompleted(kept []checklist.Line, completed []checklist.Line, marker string, heading string) []checklist.Line {
	splicedLines := make([]checklist.Line, 0, len(kept)+len(completed)+2)
	splicedLines = append(splicedLines, kept...)

	markerIndex := checklist.FindMarker(splicedLines, marker)
	if markerIndex < 0 {
		splicedLines = append(splicedLines, checklist.ParseLine(""), checklist.ParseLine(heading))
		markerIndex = len(splicedLines) - 1
	}
	if len(completed) == 0 {
		return splicedLines
	}

	insertionIndex := markerIndex + 1
	tail := append([]checklist.Line{}, splicedLines[insertionIndex:]...)
	splicedLines = append(splicedLines[:insertionIndex], completed...)
	return append(splicedLines, tail...)
}

func referencesIssue(lines []checklist.Line, issueNumber int) bool {
	for _, line := range lines {
		if line.ReferencesIssue(issueNumber) {
			return true
		}
	}
	return false
}

func cloneLines(lines []checklist.Line) []checklist.Line {
	clonedLines := make([]checklist.Line, len(lines))
	copy(clonedLines, lines)
	return clonedLines
}

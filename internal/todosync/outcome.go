package todosync

import (
	"fmt"
	"io"
)

// OutcomeKind tags what happened to one checklist item or issue during a sync.
type OutcomeKind string

// Outcome kinds.
const (
	OutcomeCreated   OutcomeKind = OutcomeKind("created")
	OutcomeAppended  OutcomeKind = OutcomeKind("appended")
	OutcomeCompleted OutcomeKind = OutcomeKind("completed")
	OutcomeMirrored  OutcomeKind = OutcomeKind("mirrored")
	OutcomePlanned   OutcomeKind = OutcomeKind("planned")
	OutcomeFailed    OutcomeKind = OutcomeKind("failed")
)

// PassName identifies the reconciliation pass that produced an outcome.
type PassName string

// Reconciliation passes in execution order.
const (
	PassCreateIssues   PassName = PassName("create_issues")
	PassAppendOpen     PassName = PassName("append_open_issues")
	PassRelocateClosed PassName = PassName("relocate_closed_issues")
)

const summaryLineTemplateConstant = "%s: %d\n"

var summaryOrder = []OutcomeKind{
	OutcomeCreated,
	OutcomeAppended,
	OutcomeCompleted,
	OutcomeMirrored,
	OutcomePlanned,
	OutcomeFailed,
}

// Outcome records a single per-item result.
type Outcome struct {
	Kind        OutcomeKind
	Pass        PassName
	IssueNumber int
	Title       string
	// Path is the mirror file written, set for OutcomeMirrored.
	Path  string
	Error error
}

// Result accumulates the outcomes of one sync run.
type Result struct {
	Repository      string
	ChecklistPath   string
	DryRun          bool
	SkipReason      string
	Outcomes        []Outcome
	Document        string
	DocumentChanged bool
	DocumentWritten bool
}

// Skipped reports whether the run ended before reconciling.
func (result Result) Skipped() bool {
	return len(result.SkipReason) > 0
}

// Count returns how many outcomes carry the kind.
func (result Result) Count(kind OutcomeKind) int {
	count := 0
	for _, outcome := range result.Outcomes {
		if outcome.Kind == kind {
			count++
		}
	}
	return count
}

// Failures returns the failed outcomes in the order they occurred.
func (result Result) Failures() []Outcome {
	failures := make([]Outcome, 0)
	for _, outcome := range result.Outcomes {
		if outcome.Kind == OutcomeFailed {
			failures = append(failures, outcome)
		}
	}
	return failures
}

// FullySynced reports whether every item was reconciled without a per-item failure.
func (result Result) FullySynced() bool {
	return !result.Skipped() && result.Count(OutcomeFailed) == 0
}

// WriteSummary prints one "<kind>: <count>" line per outcome kind.
func (result Result) WriteSummary(writer io.Writer) error {
	for _, kind := range summaryOrder {
		if kind == OutcomePlanned && !result.DryRun {
			continue
		}
		if _, writeError := fmt.Fprintf(writer, summaryLineTemplateConstant, kind, result.Count(kind)); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (result *Result) record(outcomes []Outcome) {
	result.Outcomes = append(result.Outcomes, outcomes...)
}

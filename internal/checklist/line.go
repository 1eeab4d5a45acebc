package checklist

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	uncheckedMarkerConstant      = "- [ ]"
	checkedMarkerConstant        = "- [x]"
	lineSeparatorConstant        = "\n"
	taskLineTemplateSeparator    = " "
	issueReferencePrefixConstant = "#"
)

var (
	uncheckedPrefixPattern = regexp.MustCompile(`^- \[ \] ?`)
	checkedPrefixPattern   = regexp.MustCompile(`^- \[[xX]\] ?`)
	issueReferencePattern  = regexp.MustCompile(`#(\d+)`)
	lineBreakPattern       = regexp.MustCompile(`\r?\n`)
)

// CheckboxState describes the checkbox carried by a checklist line.
type CheckboxState string

// Checkbox states.
const (
	CheckboxStateNone      CheckboxState = CheckboxState("none")
	CheckboxStateUnchecked CheckboxState = CheckboxState("unchecked")
	CheckboxStateChecked   CheckboxState = CheckboxState("checked")
)

// Line is a parsed checklist line. Raw is authoritative for rendering; the other fields are derived from it.
type Line struct {
	Raw               string
	State             CheckboxState
	Text              string
	HasIssueReference bool
	// IssueNumber is the first #<digits> reference, or 0 when absent or not representable.
	IssueNumber int
}

// ParseLine derives the checkbox state, title text, and first issue reference of a raw line.
func ParseLine(raw string) Line {
	line := Line{Raw: raw, State: CheckboxStateNone, Text: strings.TrimSpace(raw)}

	switch {
	case uncheckedPrefixPattern.MatchString(raw):
		line.State = CheckboxStateUnchecked
		line.Text = strings.TrimSpace(uncheckedPrefixPattern.ReplaceAllString(raw, ""))
	case checkedPrefixPattern.MatchString(raw):
		line.State = CheckboxStateChecked
		line.Text = strings.TrimSpace(checkedPrefixPattern.ReplaceAllString(raw, ""))
	}

	if referenceMatch := issueReferencePattern.FindStringSubmatch(raw); referenceMatch != nil {
		line.HasIssueReference = true
		if issueNumber, parseError := strconv.Atoi(referenceMatch[1]); parseError == nil {
			line.IssueNumber = issueNumber
		}
	}

	return line
}

// IsUntrackedTask reports whether the line is an unchecked item that no issue tracks yet.
func (line Line) IsUntrackedTask() bool {
	return line.State == CheckboxStateUnchecked && !line.HasIssueReference
}

// ReferencesIssue reports whether any #<digits> token in the line names the issue.
func (line Line) ReferencesIssue(issueNumber int) bool {
	expectedDigits := strconv.Itoa(issueNumber)
	for _, referenceMatch := range issueReferencePattern.FindAllStringSubmatch(line.Raw, -1) {
		if referenceMatch[1] == expectedDigits {
			return true
		}
	}
	return false
}

// NewTaskLine formats an open entry "- [ ] <title> #<number>".
func NewTaskLine(title string, issueNumber int) Line {
	return ParseLine(formatEntry(uncheckedMarkerConstant, title, issueNumber))
}

// NewCompletedLine formats a closed entry "- [x] <title> #<number>".
func NewCompletedLine(title string, issueNumber int) Line {
	return ParseLine(formatEntry(checkedMarkerConstant, title, issueNumber))
}

func formatEntry(marker string, title string, issueNumber int) string {
	return marker + taskLineTemplateSeparator + title + taskLineTemplateSeparator + issueReferencePrefixConstant + strconv.Itoa(issueNumber)
}

// Parse splits document content on LF or CRLF line breaks.
func Parse(content string) []Line {
	rawLines := lineBreakPattern.Split(content, -1)
	lines := make([]Line, 0, len(rawLines))
	for _, rawLine := range rawLines {
		lines = append(lines, ParseLine(rawLine))
	}
	return lines
}

// Render joins lines with LF. Parse followed by Render is the identity for LF documents.
func Render(lines []Line) string {
	rawLines := make([]string, 0, len(lines))
	for _, line := range lines {
		rawLines = append(rawLines, line.Raw)
	}
	return strings.Join(rawLines, lineSeparatorConstant)
}

// FindMarker returns the index of the first line whose trimmed text starts with marker, or -1.
func FindMarker(lines []Line, marker string) int {
	for lineIndex, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line.Raw), marker) {
			return lineIndex
		}
	}
	return -1
}

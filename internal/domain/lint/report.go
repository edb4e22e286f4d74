package lint

import "strings"

// Severity classifies a parsed issue.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one discrete finding extracted from the tool's text output.
type Issue struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Details  []string `json:"details"`
}

// Summary condenses an outcome into the fields clients branch on.
type Summary struct {
	ExitCode     int    `json:"exit_code"`
	Passed       bool   `json:"passed"`
	ProfileUsed  string `json:"profile_used"`
	IssueCount   int    `json:"issue_count"`
	ErrorCount   int    `json:"error_count"`
	WarningCount int    `json:"warning_count"`
}

// RawOutput carries the untouched tool streams alongside the parsed view.
type RawOutput struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// StructuredReport is the normalized form of one lint outcome.
type StructuredReport struct {
	Summary   Summary   `json:"summary"`
	Issues    []Issue   `json:"issues"`
	RawOutput RawOutput `json:"raw_output"`
}

// Normalize derives a structured report from a raw outcome. It is pure and
// has no failure mode: arbitrary or garbled stdout yields an empty issue
// list, never an error.
//
// The parse is a line heuristic over the tool's human-readable output and is
// version-fragile by design: a trimmed line starting with a severity token
// opens an issue, indented lines append details, any other non-empty line
// closes the current issue without opening a new one. Parsed issues are
// advisory; RawOutput remains authoritative.
func Normalize(outcome Outcome, profile Profile) StructuredReport {
	issues := parseIssues(outcome.Stdout)

	errorCount := 0
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errorCount++
		}
	}

	return StructuredReport{
		Summary: Summary{
			ExitCode:     outcome.ExitCode,
			Passed:       outcome.ExitCode == 0,
			ProfileUsed:  string(profile),
			IssueCount:   len(issues),
			ErrorCount:   errorCount,
			WarningCount: len(issues) - errorCount,
		},
		Issues: issues,
		RawOutput: RawOutput{
			Stdout: outcome.Stdout,
			Stderr: outcome.Stderr,
		},
	}
}

func parseIssues(stdout string) []Issue {
	issues := make([]Issue, 0)
	var current *Issue

	flush := func() {
		if current != nil {
			issues = append(issues, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(stdout, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		indented := line != trimmed && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"))

		switch {
		case strings.HasPrefix(trimmed, "WARNING"):
			flush()
			current = &Issue{
				Severity: SeverityWarning,
				Message:  trimmed,
				Details:  make([]string, 0),
			}
		case strings.HasPrefix(trimmed, "ERROR"):
			flush()
			current = &Issue{
				Severity: SeverityError,
				Message:  trimmed,
				Details:  make([]string, 0),
			}
		case current != nil && indented:
			current.Details = append(current.Details, trimmed)
		default:
			// A non-indented continuation line closes the current issue;
			// its content stays available in RawOutput only.
			flush()
		}
	}
	flush()

	return issues
}

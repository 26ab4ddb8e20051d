package output

import "github.com/crimson-sun/stepwise/internal/model"

// Verbosity controls how much raw execution context outputs retain.
// The in-memory document is always complete; stripping happens at the
// output boundary only.
type Verbosity int

const (
	Minimal  Verbosity = iota // drop exec_info, keep verdicts
	Standard                  // truncate long exec_info
	Full                      // retain everything
)

const standardExecInfoLimit = 2000

// ParseVerbosity maps a string to a Verbosity. Unknown strings mean Standard.
func ParseVerbosity(s string) Verbosity {
	switch s {
	case "minimal":
		return Minimal
	case "full":
		return Full
	default:
		return Standard
	}
}

// FormatDocument returns a copy of the document with entry fields stripped
// according to verbosity. Steps, ordering and sequence numbers are never
// touched.
func FormatDocument(doc model.Document, verbosity Verbosity) model.Document {
	if verbosity == Full {
		return doc
	}
	steps := make(model.StepList, len(doc.Steps))
	for i, sc := range doc.Steps {
		entries := make([]model.CommandEntry, len(sc.Entries))
		for j, e := range sc.Entries {
			switch verbosity {
			case Minimal:
				e.ExecInfo = ""
			case Standard:
				e.ExecInfo = truncate(e.ExecInfo, standardExecInfoLimit)
			}
			entries[j] = e
		}
		steps[i] = model.StepCommands{Step: sc.Step, Entries: entries}
	}
	doc.Steps = steps
	return doc
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

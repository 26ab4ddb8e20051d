package stepwise

import (
	"time"

	"github.com/crimson-sun/stepwise/internal/model"
)

// Document is the command information extracted from one session log.
// This is the stable public type — internal representations may evolve
// independently without breaking consumers.
type Document struct {
	RunID       string    `json:"run_id"`             // Unique ID for this extraction run
	Source      string    `json:"source"`             // Path of the session log
	ProcessedAt time.Time `json:"processed_at"`       // UTC extraction timestamp
	Steps       []Step    `json:"steps"`              // Setup, test steps, teardown, in log order
	Warnings    []string  `json:"warnings,omitempty"` // Anomalies skipped during extraction
}

// Step is one named region of the run with its command entries in
// execution order.
type Step struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// Entry is one command interaction: what was sent, what came back, and
// what was expected.
type Entry struct {
	Sequence int      `json:"sequence"`  // 0-based position within the step
	Commands []string `json:"commands"`  // Command lines sent to the device
	ExecInfo string   `json:"exec_info"` // Raw device output
	ExecRes  string   `json:"exec_res"`  // Pass/fail verdict, "" when absent
	Expect   []string `json:"expect"`    // Patterns the output was checked against
}

// fromModel converts the internal document into the public shape.
func fromModel(doc model.Document) Document {
	steps := make([]Step, 0, len(doc.Steps))
	for _, sc := range doc.Steps {
		entries := make([]Entry, 0, len(sc.Entries))
		for _, e := range sc.Entries {
			entries = append(entries, Entry{
				Sequence: e.Sequence,
				Commands: e.Commands,
				ExecInfo: e.ExecInfo,
				ExecRes:  e.ExecRes,
				Expect:   e.Expect,
			})
		}
		steps = append(steps, Step{Name: sc.Step, Entries: entries})
	}
	return Document{
		RunID:       doc.RunID,
		Source:      doc.Source,
		ProcessedAt: doc.ProcessedAt,
		Steps:       steps,
		Warnings:    doc.Warnings,
	}
}

package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// CommandEntry is the canonical normalized form of one interaction record.
// Every field is always present: absent log fields become typed defaults,
// never nil.
type CommandEntry struct {
	Sequence int      `json:"sequence"`
	Commands []string `json:"commands"`
	ExecInfo string   `json:"exec_info"`
	ExecRes  string   `json:"exec_res"`
	Expect   []string `json:"expect"`
}

// StepCommands holds the ordered entries of one named test step.
type StepCommands struct {
	Step    string
	Entries []CommandEntry
}

// StepList is the step-keyed command info of one session log. Order is
// first-appearance order of each step name in the source, and survives
// JSON round-trips: the list marshals as a JSON object whose keys appear
// in list order.
type StepList []StepCommands

// Get returns the entries for a step name and whether the step exists.
func (s StepList) Get(step string) ([]CommandEntry, bool) {
	for _, sc := range s {
		if sc.Step == step {
			return sc.Entries, true
		}
	}
	return nil, false
}

// MarshalJSON emits a JSON object keyed by step name, in list order.
func (s StepList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(sc.Step)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		entries := sc.Entries
		if entries == nil {
			entries = []CommandEntry{}
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a step-keyed object back into a StepList, preserving
// the key order of the document.
func (s *StepList) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("step list: expected object, got %v", tok)
	}

	out := StepList{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("step list: expected step name, got %v", tok)
		}
		var entries []CommandEntry
		if err := dec.Decode(&entries); err != nil {
			return fmt.Errorf("step list: step %q: %w", name, err)
		}
		if entries == nil {
			entries = []CommandEntry{}
		}
		out = append(out, StepCommands{Step: name, Entries: entries})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Document is the full command-info artifact for one session log. Assembled
// once per processing run and never mutated afterwards.
type Document struct {
	RunID       string    `json:"run_id"`
	Source      string    `json:"source"`
	ProcessedAt time.Time `json:"processed_at"`
	Steps       StepList  `json:"steps"`
	Warnings    []string  `json:"warnings,omitempty"`
}

// Package segment splits a decoded session log into step-keyed groups of
// raw interaction records. Step insertion order follows first appearance in
// the log; malformed regions are skipped with a recorded warning rather than
// aborting the remaining log.
package segment

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/crimson-sun/stepwise/internal/decode"
	"github.com/crimson-sun/stepwise/internal/model"
)

// Segments is the ordered result of splitting one session log.
type Segments struct {
	order    []string
	recs     map[string][]model.RawRecord
	Warnings []string
}

// NewSegments returns an empty Segments.
func NewSegments() *Segments {
	return &Segments{recs: make(map[string][]model.RawRecord)}
}

// Add appends a record to the named step, registering the step on first use.
func (s *Segments) Add(step string, rec model.RawRecord) {
	s.Touch(step)
	s.recs[step] = append(s.recs[step], rec)
}

// Touch registers a step name without adding a record. A step that appears
// in the log but yields no records still shows up downstream with an empty
// entry list.
func (s *Segments) Touch(step string) {
	if _, ok := s.recs[step]; !ok {
		s.recs[step] = []model.RawRecord{}
		s.order = append(s.order, step)
	}
}

// Steps returns step names in first-appearance order.
func (s *Segments) Steps() []string {
	return s.order
}

// Records returns the records of one step in log order.
func (s *Segments) Records(step string) []model.RawRecord {
	return s.recs[step]
}

// Len returns the number of distinct steps.
func (s *Segments) Len() int {
	return len(s.order)
}

func (s *Segments) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	slog.Warn("segment: " + msg)
	s.Warnings = append(s.Warnings, msg)
}

// Segmenter walks a decoded log tree and groups interaction records by step.
type Segmenter struct{}

// New creates a Segmenter.
func New() *Segmenter {
	return &Segmenter{}
}

// Split groups every interaction record in the decoded log under the step it
// belongs to. The input is the tree produced by decode.Session: the log's
// test cases in document order, each holding optional "setup", "steps" and
// "teardown" regions. Step registration follows document order, so a case
// written earlier in the log always segments first.
func (g *Segmenter) Split(root any) *Segments {
	segs := NewSegments()

	switch t := root.(type) {
	case []decode.Member:
		for _, m := range t {
			if tc, ok := m.Value.(map[string]any); ok {
				g.splitCase(segs, tc)
			}
		}
	case map[string]any:
		// Pre-decoded trees land here with document order already lost;
		// sorted keys keep the result deterministic.
		for _, key := range sortedKeys(t) {
			if tc, ok := t[key].(map[string]any); ok {
				g.splitCase(segs, tc)
			}
		}
	default:
		segs.warnf("log root is %T, expected object", root)
	}
	return segs
}

// splitCase segments one test case: its setup, its steps, its teardown.
func (g *Segmenter) splitCase(segs *Segments, tc map[string]any) {
	if setup, ok := tc["setup"]; ok {
		g.splitPhase(segs, "setup", setup)
	}
	if steps, ok := tc["steps"]; ok {
		g.splitSteps(segs, steps)
	}
	if teardown, ok := tc["teardown"]; ok {
		g.splitPhase(segs, "teardown", teardown)
	}
}

// splitPhase handles a setup or teardown region: its stepLists items belong
// to a step named after the phase itself.
func (g *Segmenter) splitPhase(segs *Segments, phase string, region any) {
	rm, ok := region.(map[string]any)
	if !ok {
		segs.warnf("%s region is %T, expected object", phase, region)
		return
	}
	segs.Touch(phase)
	if lists, ok := rm["stepLists"]; ok {
		for _, item := range asList(lists) {
			g.addItem(segs, phase, item)
		}
	}
	if errText, ok := rm["Error_occurred"]; ok {
		segs.Add(phase, errorRecord(errText))
	}
}

// splitSteps handles the "steps" region: a single step object or a list of
// them, each named by its title.
func (g *Segmenter) splitSteps(segs *Segments, steps any) {
	for i, step := range asList(steps) {
		sm, ok := step.(map[string]any)
		if !ok {
			segs.warnf("step %d is %T, expected object", i+1, step)
			continue
		}
		name := stepName(sm, i+1)
		segs.Touch(name)
		if lists, ok := sm["stepLists"]; ok {
			for _, item := range asList(lists) {
				g.addItem(segs, name, item)
			}
		}
		// A step-level failure is attributed to the step, after its records.
		if errText, ok := sm["Error_occurred"]; ok {
			segs.Add(name, errorRecord(errText))
		}
	}
}

// addItem converts one stepLists item into an interaction record. Items with
// a METHOD title are command sends; items carrying CheckCommand are
// expected-output checks. Anything else is skipped with a warning.
func (g *Segmenter) addItem(segs *Segments, step string, item any) {
	im, ok := item.(map[string]any)
	if !ok {
		segs.warnf("step %q: item is %T, expected object", step, item)
		return
	}
	if check, ok := im["CheckCommand"]; ok {
		rec, hasExpect := checkRecord(check)
		if rec == nil {
			segs.warnf("step %q: unrecognized check record", step)
			return
		}
		if !hasExpect {
			segs.warnf("step %q: check record has no expect patterns", step)
		}
		segs.Add(step, rec)
		return
	}
	if titleHasMethod(im["Title"]) {
		segs.Add(step, sendRecord(im))
		return
	}
	segs.warnf("step %q: item has neither METHOD title nor CheckCommand", step)
}

// sendRecord builds the record for a command send: commands from the call
// parameter string, execution context from the captured responses, result
// from the run verdict. Absent source fields stay absent — normalization
// fills defaults later.
func sendRecord(im map[string]any) model.RawRecord {
	rec := model.RawRecord{}
	if param, ok := im["Parameter"].(string); ok {
		rec[model.FieldSendCommands] = splitCommands(param)
	}
	if resp, ok := im["all_cmds_response"].(string); ok {
		rec[model.FieldExecInfo] = resp
	}
	if res, ok := im["Result"]; ok {
		rec[model.FieldExecRes] = res
	}
	return rec
}

// checkRecord builds the record for an expected-output check. The check log
// is an object (or a list, in which case the last element counts) whose
// "send" sub-entry carries the probing command and whose parameter string
// embeds the expect patterns. Returns nil when the shape is unrecognizable,
// and whether any expect pattern was found.
func checkRecord(check any) (model.RawRecord, bool) {
	items := asList(check)
	if len(items) == 0 {
		return nil, false
	}
	cm, ok := items[len(items)-1].(map[string]any)
	if !ok {
		return nil, false
	}

	if errText, ok := cm["Error_occurred"]; ok {
		return errorRecord(errText), true
	}

	rec := model.RawRecord{}
	var expect []string
	for _, key := range sortedKeys(cm) {
		switch {
		case strings.Contains(key, "send"):
			if _, done := rec[model.FieldSendCommands]; done {
				continue
			}
			if sub, ok := cm[key].(map[string]any); ok {
				for k, v := range sendRecord(sub) {
					rec[k] = v
				}
			}
		case strings.Contains(key, "Parameter"):
			if param, ok := cm[key].(string); ok {
				expect = append(expect, parseExpect(param)...)
			}
		}
	}
	if len(expect) > 0 {
		rec[model.FieldExpect] = expect
	}
	if res, ok := cm["Result"]; ok {
		rec[model.FieldExecRes] = res
	}
	if len(rec) == 0 {
		return nil, false
	}
	return rec, len(expect) > 0
}

// errorRecord represents a region that aborted with Error_occurred: no
// commands, the error text as context, a hard FAIL verdict.
func errorRecord(errText any) model.RawRecord {
	return model.RawRecord{
		model.FieldSendCommands: []string{},
		model.FieldExecInfo:     errText,
		model.FieldExecRes:      "FAIL",
		model.FieldExpect:       []string{},
	}
}

// stepName derives a step's name from its title: the text before the first
// colon of the title's last element. Falls back to step_<n> when the title
// is absent or unusable.
func stepName(sm map[string]any, n int) string {
	title := asList(sm["Title"])
	if len(title) > 0 {
		if last, ok := title[len(title)-1].(string); ok && last != "" {
			name, _, _ := strings.Cut(last, ":")
			if name = strings.TrimSpace(name); name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("step_%d", n)
}

// titleHasMethod reports whether any title element mentions METHOD.
func titleHasMethod(title any) bool {
	for _, el := range asList(title) {
		if s, ok := el.(string); ok && strings.Contains(s, "METHOD") {
			return true
		}
	}
	return false
}

// asList lifts a scalar or object into a one-element slice so regions that
// may be either a single item or a list get uniform treatment. Nil stays
// empty.
func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

// sortedKeys gives deterministic object traversal: JSON object member order
// is not preserved by unmarshalling, so key scans sort.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

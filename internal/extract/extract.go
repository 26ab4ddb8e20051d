// Package extract assembles segmented session logs into the final
// step-keyed command info.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/crimson-sun/stepwise/internal/extract/normalize"
	"github.com/crimson-sun/stepwise/internal/extract/segment"
	"github.com/crimson-sun/stepwise/internal/model"
)

// Arranger drives the step builder over every segment, in step-insertion
// order, and merges the results into one ordered step list. Given the same
// segments it produces identical output; there is no hash-order or timing
// dependence anywhere in the walk.
type Arranger struct{}

// New creates an Arranger.
func New() *Arranger {
	return &Arranger{}
}

// Result carries the arranged steps plus the warnings accumulated across
// segmentation and arrangement.
type Result struct {
	Steps    model.StepList
	Warnings []string
}

// Arrange builds the ordered step list from the segments. A structural
// anomaly inside one step costs that step its entries — it is emitted with
// an empty list and a warning — never the rest of the log.
func (a *Arranger) Arrange(segs *segment.Segments) Result {
	res := Result{
		Steps:    make(model.StepList, 0, segs.Len()),
		Warnings: append([]string(nil), segs.Warnings...),
	}
	for _, step := range segs.Steps() {
		entries, err := buildStep(segs.Records(step))
		if err != nil {
			msg := fmt.Sprintf("step %q: %v; emitting empty entry list", step, err)
			slog.Warn("arrange: " + msg)
			res.Warnings = append(res.Warnings, msg)
			entries = []model.CommandEntry{}
		}
		res.Steps = append(res.Steps, model.StepCommands{Step: step, Entries: entries})
	}
	return res
}

// buildStep isolates one step's build so a panic in record handling is
// contained at step granularity. Partial results beat total failure.
func buildStep(recs []model.RawRecord) (entries []model.CommandEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entries = nil
			err = fmt.Errorf("builder panic: %v", r)
		}
	}()
	return normalize.BuildStep(recs), nil
}

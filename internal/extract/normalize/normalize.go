// Package normalize converts loose interaction records into fully-defaulted
// command entries. Absence of any field — including all of them — is a valid
// input state, not an error: some steps legitimately capture no execution
// context and carry no validation check. Nothing in this package can fail.
package normalize

import (
	"fmt"

	"github.com/crimson-sun/stepwise/internal/model"
)

// Record extracts the four canonical content fields from a raw record,
// applying per-field defaults. The returned entry always has non-nil
// slices and present strings; Sequence is left for the step builder.
func Record(rec model.RawRecord) model.CommandEntry {
	return model.CommandEntry{
		Commands: stringList(rec[model.FieldSendCommands]),
		ExecInfo: stringValue(rec[model.FieldExecInfo]),
		ExecRes:  stringValue(rec[model.FieldExecRes]),
		Expect:   stringList(rec[model.FieldExpect]),
	}
}

// BuildStep normalizes the ordered records of one step, assigning each a
// dense, zero-based sequence number in encounter order. len(in) records
// always yield exactly len(in) entries — malformed records are coerced,
// never dropped.
func BuildStep(recs []model.RawRecord) []model.CommandEntry {
	entries := make([]model.CommandEntry, 0, len(recs))
	for i, rec := range recs {
		entry := Record(rec)
		entry.Sequence = i
		entries = append(entries, entry)
	}
	return entries
}

// stringValue coerces a field to a string. Missing → "".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// stringList coerces a field to a string slice, best-effort. Missing → empty
// slice; a scalar becomes a one-element slice; non-string elements are
// stringified. Malformed upstream logs must not cost a step its data.
func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		if t == nil {
			return []string{}
		}
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			out = append(out, stringValue(el))
		}
		return out
	case string:
		if t == "" {
			return []string{}
		}
		return []string{t}
	default:
		return []string{fmt.Sprint(t)}
	}
}

package model

// Field names an interaction record may carry. A record is never assumed
// complete: any subset of these keys, including none, is valid.
const (
	FieldSendCommands = "send_commands"
	FieldExecInfo     = "exec_info"
	FieldExecRes      = "exec_res"
	FieldExpect       = "expect"
)

// RawRecord is one command/response interaction as the segmenter lifted it
// out of the log: an open string-keyed mapping. It is the only loosely-typed
// shape in the pipeline — everything downstream of normalization works on
// CommandEntry.
type RawRecord map[string]any

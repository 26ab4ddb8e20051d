package decode

import (
	"encoding/base64"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestSessionDecodesBase64Payloads(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString([]byte("display version\ndisplay interface"))
	data := []byte(`{"Parameter": "_CMD:b'` + b64 + `'", "Result": "PASS"}`)

	v, err := Session(data)
	if err != nil {
		t.Fatalf("Session error: %v", err)
	}
	members, ok := v.([]Member)
	if !ok {
		t.Fatalf("expected []Member, got %T", v)
	}
	got := map[string]any{}
	for _, m := range members {
		got[m.Key] = m.Value
	}
	if got["Parameter"] != "display version\ndisplay interface" {
		t.Errorf("Parameter = %q, want decoded command text", got["Parameter"])
	}
	if got["Result"] != "PASS" {
		t.Errorf("Result = %q, want PASS untouched", got["Result"])
	}
}

func TestSessionPreservesMemberOrder(t *testing.T) {
	v, err := Session([]byte(`{"z_case": {"id": 1}, "a_case": {"id": 2}, "m_case": {"id": 3}}`))
	if err != nil {
		t.Fatalf("Session error: %v", err)
	}
	members, ok := v.([]Member)
	if !ok {
		t.Fatalf("expected []Member, got %T", v)
	}

	want := []string{"z_case", "a_case", "m_case"}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for i, w := range want {
		if members[i].Key != w {
			t.Errorf("member %d = %q, want %q (document order, not lexical)", i, members[i].Key, w)
		}
	}
}

func TestSessionDecodesNestedValues(t *testing.T) {
	v, err := Session([]byte(`{"case": {"all_cmds_response": "line one\\nline two"}}`))
	if err != nil {
		t.Fatalf("Session error: %v", err)
	}
	members := v.([]Member)
	inner, ok := members[0].Value.(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", members[0].Value)
	}
	if got := inner["all_cmds_response"]; got != "line one\nline two" {
		t.Errorf("got %q, want real newline", got)
	}
}

func TestSessionExpandsEscapedNewlines(t *testing.T) {
	v, err := Session([]byte(`["line one\\nline two"]`))
	if err != nil {
		t.Fatalf("Session error: %v", err)
	}
	list, ok := v.([]any)
	if !ok {
		t.Fatalf("expected []any for a non-object root, got %T", v)
	}
	if got := list[0]; got != "line one\nline two" {
		t.Errorf("got %q, want real newline", got)
	}
}

func TestSessionTrailingData(t *testing.T) {
	if _, err := Session([]byte(`{"case": {}} extra`)); err == nil {
		t.Fatal("expected error for trailing data")
	}
}

func TestSessionInvalidJSON(t *testing.T) {
	if _, err := Session([]byte("not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestValueLeavesMalformedPayloadIntact(t *testing.T) {
	// Not valid base64 — the original string must survive.
	in := "_HTML:b'%%%not-base64%%%'"
	if got := Value(in); got != in {
		t.Errorf("got %q, want original preserved", got)
	}
}

func TestValueNonStringLeaves(t *testing.T) {
	in := []any{float64(3), true, nil, "plain"}
	out := Value(in).([]any)
	if out[0] != float64(3) || out[1] != true || out[2] != nil || out[3] != "plain" {
		t.Errorf("non-string leaves changed: %v", out)
	}
}

func TestDecodeCharsetGBKFallback(t *testing.T) {
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte("回显信息"))
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	b64 := base64.StdEncoding.EncodeToString(gbk)

	got := decodeString("_HTML:b'" + b64 + "'")
	if got != "回显信息" {
		t.Errorf("got %q, want GBK bytes decoded to UTF-8", got)
	}
}

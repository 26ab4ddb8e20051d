// Package decode rewrites the transport encoding of raw session logs.
// Log producers wrap captured device output as `_HTML:b'<base64>'` or
// `_CMD:b'<base64>'` strings and escape newlines literally; this package
// undoes both so the segmenter sees plain text.
package decode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
)

var payloadRe = regexp.MustCompile(`^_(?:HTML|CMD):b'(.*)'$`)

// Device vendors emit mixed-charset captures; order matches observed frequency.
var fallbacks = []encoding.Encoding{
	simplifiedchinese.GBK,
	simplifiedchinese.GB18030,
	charmap.ISO8859_1,
}

// Member is one top-level member of a session log, in document order. The
// top level maps test case names to their regions, and downstream step
// ordering follows the order the cases appear in the file — unmarshalling
// into a map would lose it.
type Member struct {
	Key   string
	Value any
}

// Session parses a JSON session log and decodes every encoded payload in it.
// A top-level object comes back as []Member so the test cases keep their
// document order; any other root decodes as a plain value.
func Session(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		return Value(v), nil
	}

	members := []Member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("decode session: expected member name, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode session: member %q: %w", key, err)
		}
		members = append(members, Member{Key: key, Value: Value(v)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode session: trailing data after log")
	}
	return members, nil
}

// Value recursively decodes payload strings inside an unmarshalled log tree.
// Non-string leaves pass through unchanged; a string that fails to decode
// keeps its original value — decoding never discards data.
func Value(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Value(val)
		}
		return out
	case string:
		return decodeString(t)
	default:
		return v
	}
}

func decodeString(s string) string {
	m := payloadRe.FindStringSubmatch(s)
	if m == nil {
		return expandNewlines(s)
	}
	raw, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		return expandNewlines(s)
	}
	return expandNewlines(decodeCharset(raw))
}

// decodeCharset returns the bytes as UTF-8 text, trying the fallback
// charsets when the bytes are not already valid UTF-8.
func decodeCharset(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	for _, enc := range fallbacks {
		out, err := enc.NewDecoder().Bytes(b)
		if err == nil && utf8.Valid(out) {
			return string(out)
		}
	}
	return string(b)
}

func expandNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

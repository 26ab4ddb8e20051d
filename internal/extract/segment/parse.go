package segment

import (
	"regexp"
	"strings"
)

var (
	// First parenthesized group of a call-parameter string, across lines.
	parenRe = regexp.MustCompile(`(?s)\(\s*(.*?)\s*\)`)
	// Leading/trailing quote runs around a single command.
	edgeQuotesRe = regexp.MustCompile(`^['"]+|['"]+$`)
	// The expect list embedded in a check parameter string:
	// ... {'cmd': 'display xxx', 'expect': ['Up', 'GE0/1']} ...
	expectListRe = regexp.MustCompile(`['"]?expect['"]?\s*[:=]\s*\[(.*?)\]`)
	// Individual quoted patterns inside the expect list.
	quotedRe = regexp.MustCompile(`['"](.+?)['"]`)
)

// splitCommands extracts the device commands from a call-parameter string
// such as "函数入参：('vlan 10\nquit',),{}": the first parenthesized group,
// one command per line, wrapping quotes stripped. Unparseable input yields
// an empty list, never an error.
func splitCommands(param string) []string {
	m := parenRe.FindStringSubmatch(param)
	if m == nil {
		return []string{}
	}
	content := strings.TrimSpace(m[1])

	if len(content) >= 2 {
		if (content[0] == '\'' && content[len(content)-1] == '\'') ||
			(content[0] == '"' && content[len(content)-1] == '"') {
			content = content[1 : len(content)-1]
		}
	}
	content = strings.TrimSpace(strings.TrimSuffix(content, ","))

	cmds := []string{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(edgeQuotesRe.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			cmds = append(cmds, line)
		}
	}
	return cmds
}

// parseExpect pulls the expected-output patterns out of a check parameter
// string. Returns nil when the string carries no expect list — a legal
// state, some checks validate only the command verdict.
func parseExpect(param string) []string {
	m := expectListRe.FindStringSubmatch(param)
	if m == nil {
		return nil
	}
	var patterns []string
	for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
		patterns = append(patterns, q[1])
	}
	return patterns
}

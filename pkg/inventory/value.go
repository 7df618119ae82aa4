// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"strconv"
	"strings"
)

// mergeMaps merges src over dst and returns the result. Neither input is
// mutated. Nested mappings merge key by key; every other value kind (scalars
// and lists included) is replaced wholesale by the src side, even when the
// src value is a zero value like false, 0, or "".
func mergeMaps(dst, src map[string]any) map[string]any {
	if dst == nil && src == nil {
		return nil
	}
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = copyValue(v)
	}
	for k, v := range src {
		if dm, ok := out[k].(map[string]any); ok {
			if sm, ok := v.(map[string]any); ok {
				out[k] = mergeMaps(dm, sm)
				continue
			}
		}
		out[k] = copyValue(v)
	}
	return out
}

// copyValue deep-copies the mapping and list spine of a variable value so
// snapshots never alias parser-owned memory. Scalars are immutable and are
// returned as-is.
func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = copyValue(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// coerceScalar converts an INI-side value token into a typed variable value,
// mirroring how the line-oriented format is read by the external tool:
// quoted strings are unquoted, booleans and numbers become typed values, and
// anything else stays a string.
func coerceScalar(s string) any {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	switch strings.ToLower(s) {
	case "true", "yes":
		return true
	case "false", "no":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// splitHostTokens splits an INI host line into whitespace-separated tokens,
// keeping quoted spans (e.g. greeting="hello world") intact.
func splitHostTokens(line string) []string {
	var tokens []string
	var cur strings.Builder
	var quote byte

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ' ' || c == '\t':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}

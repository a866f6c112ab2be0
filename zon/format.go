package zon

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Wire Constants
// ============================================================

const (
	tableMarker   = "@"
	metaSeparator = ":"

	// defaultStreamKey names the table when a bare array is encoded.
	defaultStreamKey = "data"

	// Legacy stream-control tokens. The current encoder never emits them,
	// but strings spelling them must stay quoted so old decoders cannot
	// misread them.
	gasToken    = "_"
	liquidToken = "^"
)

// cellDelimiters are the structural characters that force quoting of a bare
// string in any cell or node position.
const cellDelimiters = ",:{}[]|;\""

// ============================================================
// Value Formatting (shared encoder contract)
// ============================================================

// formatCell renders a value for a table cell or metadata value position.
// Strings that could be misread as literals or numbers are JSON-escaped and
// then CSV-quoted; strings containing structural delimiters are CSV-quoted;
// containers render as inline nodes, CSV-quoted as a whole.
func formatCell(v *Value, seen map[*Value]struct{}) (string, error) {
	switch v.Kind() {
	case KindNull:
		return "null", nil
	case KindBool:
		if v.boolVal {
			return "T", nil
		}
		return "F", nil
	case KindInt:
		return strconv.FormatInt(v.intVal, 10), nil
	case KindFloat:
		return formatFloat(v.floatVal), nil
	case KindString:
		s := v.strVal
		if isTimestampShaped(s) {
			// Unambiguous to a reader despite the colons.
			return s, nil
		}
		if needsTypeProtection(s) {
			return csvQuote(jsonQuote(s)), nil
		}
		if containsDelimiter(s) {
			return csvQuote(s), nil
		}
		return s, nil
	default:
		node, err := formatNode(v, seen)
		if err != nil {
			return "", err
		}
		if containsDelimiter(node) {
			return csvQuote(node), nil
		}
		return node, nil
	}
}

// formatNode renders a value in the inline node syntax: {k:v,...} / [v,...].
// The seen set is the current containment path; revisiting a container on it
// is a circular reference.
func formatNode(v *Value, seen map[*Value]struct{}) (string, error) {
	switch v.Kind() {
	case KindNull:
		return "null", nil
	case KindBool:
		if v.boolVal {
			return "T", nil
		}
		return "F", nil
	case KindInt:
		return strconv.FormatInt(v.intVal, 10), nil
	case KindFloat:
		return formatFloat(v.floatVal), nil
	case KindString:
		s := v.strVal
		if needsTypeProtection(s) || containsDelimiter(s) {
			return jsonQuote(s), nil
		}
		return s, nil
	case KindArray:
		if _, ok := seen[v]; ok {
			return "", ErrCircularReference
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		if len(v.arrVal) == 0 {
			return "[]", nil
		}
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			s, err := formatNode(item, seen)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		b.WriteByte(']')
		return b.String(), nil
	case KindObject:
		if _, ok := seen[v]; ok {
			return "", ErrCircularReference
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		if len(v.objVal) == 0 {
			return "{}", nil
		}
		var b strings.Builder
		b.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(formatNodeKey(f.Key))
			b.WriteByte(':')
			s, err := formatNode(f.Value, seen)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		}
		b.WriteByte('}')
		return b.String(), nil
	}
	return "null", nil
}

// formatNodeKey quotes object keys only when they contain delimiters.
func formatNodeKey(k string) string {
	if k == "" || containsDelimiter(k) {
		return jsonQuote(k)
	}
	return k
}

// formatFloat renders a float as decimal text that always contains a dot.
// Non-finite values are lossy by design and become null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// ============================================================
// Quoting Rules
// ============================================================

// containsDelimiter reports whether s contains a structural delimiter or a
// raw control character.
func containsDelimiter(s string) bool {
	if strings.ContainsAny(s, cellDelimiters) {
		return true
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}

// needsTypeProtection reports whether a bare emission of s would decode as
// something other than a string.
func needsTypeProtection(s string) bool {
	if s == "" {
		return true
	}
	if isReservedLiteral(s) {
		return true
	}
	if looksNumeric(s) {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	// Node-shaped strings would re-parse as containers without the extra
	// string layer.
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return true
	}
	// A leading table marker would make a line or first-column cell misread
	// as a table header.
	if strings.HasPrefix(s, tableMarker) {
		return true
	}
	// Raw control characters would break the line protocol; the JSON layer
	// escapes them.
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}

// isReservedLiteral matches the boolean/null spellings the decoder accepts,
// plus the legacy control tokens.
func isReservedLiteral(s string) bool {
	switch strings.ToLower(s) {
	case "t", "f", "true", "false", "null", "none", "nil":
		return true
	}
	return s == gasToken || s == liquidToken
}

// looksNumeric is deliberately wider than the decoder's numeric rule:
// over-quoting a string is safe, under-quoting changes its type.
func looksNumeric(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	return false
}

var (
	dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeShape = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2}(\.\d+)?)?$`)
	dtShape   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?$`)
)

// isTimestampShaped recognizes ISO-8601 date/time/datetime strings, which
// are emitted bare even though they contain : and -.
func isTimestampShaped(s string) bool {
	return dateShape.MatchString(s) || timeShape.MatchString(s) || dtShape.MatchString(s)
}

var urlShape = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// isURLShaped recognizes scheme://-prefixed tokens.
func isURLShaped(s string) bool {
	return urlShape.MatchString(s)
}

// hasTimestampPrefix reports whether a row token begins like a timestamp,
// meaning its colon is part of a time, not a sparse key:value pair.
func hasTimestampPrefix(s string) bool {
	if dtPrefix.MatchString(s) || timePrefix.MatchString(s) {
		return true
	}
	return false
}

var (
	dtPrefix   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ]\d{2}:`)
	timePrefix = regexp.MustCompile(`^\d{1,2}:\d{2}`)
)

// csvQuote wraps s in double quotes, doubling embedded quotes (RFC 4180).
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// jsonQuote renders s as a JSON string literal.
func jsonQuote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal of a string cannot fail.
		return `""`
	}
	return string(b)
}

package zon

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ============================================================
// Value Parsing (shared decoder contract)
// ============================================================
//
// Three layers, mirroring the formatter:
//   parsePrimitive - leaf tokens: literals, numbers, quoted/bare strings
//   parseNode      - recursive bracket grammar: {k:v,...} / [v,...]
//   parseCell      - table-cell/metadata values: unwraps one layer of CSV
//                    quoting, then delegates

// valueParser carries the security limits and the current physical line for
// error reporting.
type valueParser struct {
	limits Limits
	line   int
}

// parsePrimitive parses a leaf token. Literal spellings are
// case-insensitive; JSON-quoted strings win over literal/number checks;
// numeric coercion tries integer first unless a dot is present; the
// fallback is the raw string.
func parsePrimitive(tok string) *Value {
	tok = strings.TrimSpace(tok)

	switch strings.ToLower(tok) {
	case "t", "true":
		return Bool(true)
	case "f", "false":
		return Bool(false)
	case "null", "none", "nil":
		return Null()
	}

	if strings.HasPrefix(tok, `"`) {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err == nil {
			return Str(s)
		}
	}

	if v, ok := parseNumber(tok); ok {
		return v
	}
	return Str(tok)
}

// parseNumber applies the numeric rule: a dot means float, otherwise
// integer. Tokens like "1e5" or "inf" deliberately stay strings.
func parseNumber(tok string) (*Value, bool) {
	if tok == "" {
		return nil, false
	}
	if strings.Contains(tok, ".") {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return Float(f), true
		}
		return nil, false
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Int(i), true
	}
	return nil, false
}

// parseNode parses the inline node syntax recursively, enforcing the
// depth, array-length, and object-key ceilings.
func (p *valueParser) parseNode(text string, depth int) (*Value, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Null(), nil
	}

	if strings.HasPrefix(text, "{") && strings.HasSuffix(text, "}") {
		if depth >= p.limits.MaxDepth {
			return nil, decodeErrorf(ErrCodeDepth, p.line, "nesting exceeds %d levels", p.limits.MaxDepth)
		}
		content := strings.TrimSpace(text[1 : len(text)-1])
		if content == "" {
			return Object(), nil
		}
		pairs := splitTop(content, ',')
		if len(pairs) > p.limits.MaxObjectKeys {
			return nil, decodeErrorf(ErrCodeObjectKeys, p.line, "inline object exceeds %d keys", p.limits.MaxObjectKeys)
		}
		obj := Object()
		for _, pair := range pairs {
			ci := findTop(pair, ':')
			if ci == -1 {
				continue
			}
			key := parseNodeKey(pair[:ci])
			val, err := p.parseNode(pair[ci+1:], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
		return obj, nil
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		if depth >= p.limits.MaxDepth {
			return nil, decodeErrorf(ErrCodeDepth, p.line, "nesting exceeds %d levels", p.limits.MaxDepth)
		}
		content := strings.TrimSpace(text[1 : len(text)-1])
		if content == "" {
			return Array(), nil
		}
		parts := splitTop(content, ',')
		if len(parts) > p.limits.MaxArrayLength {
			return nil, decodeErrorf(ErrCodeArrayLength, p.line, "inline array exceeds %d elements", p.limits.MaxArrayLength)
		}
		items := make([]*Value, 0, len(parts))
		for _, part := range parts {
			item, err := p.parseNode(part, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return Array(items...), nil
	}

	return parsePrimitive(text), nil
}

// parseNodeKey unquotes a JSON-quoted object key, otherwise returns the
// trimmed raw text.
func parseNodeKey(tok string) string {
	tok = strings.TrimSpace(tok)
	if strings.HasPrefix(tok, `"`) {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err == nil {
			return s
		}
	}
	return tok
}

// parseCell parses a table cell or metadata value. CSV quoting is unwrapped
// first; a quoted payload that itself reads as a node is re-parsed, which is
// how containers travel inside cells.
func (p *valueParser) parseCell(tok string) (*Value, error) {
	tok = strings.TrimSpace(tok)

	if strings.HasPrefix(tok, `"`) {
		var s string
		if err := json.Unmarshal([]byte(tok), &s); err == nil {
			return p.nodeOrString(s)
		}

		// CSV fallback: doubled-quote unwrapping, best effort by design.
		if len(tok) >= 2 && strings.HasSuffix(tok, `"`) {
			unq := strings.ReplaceAll(tok[1:len(tok)-1], `""`, `"`)
			st := strings.TrimSpace(unq)
			if strings.HasPrefix(st, "{") || strings.HasPrefix(st, "[") {
				return p.parseNode(st, 0)
			}
			if strings.HasPrefix(st, `"`) {
				// A second string layer is the type-protection marker: the
				// payload is a string even if it is shaped like a node.
				var inner string
				if err := json.Unmarshal([]byte(st), &inner); err == nil {
					return Str(inner), nil
				}
			}
			return Str(unq), nil
		}
	}

	switch strings.ToLower(tok) {
	case "t", "true":
		return Bool(true), nil
	case "f", "false":
		return Bool(false), nil
	case "null", "none", "nil":
		return Null(), nil
	}

	if strings.HasPrefix(tok, "{") || strings.HasPrefix(tok, "[") {
		return p.parseNode(tok, 0)
	}

	if v, ok := parseNumber(tok); ok {
		return v, nil
	}
	return Str(tok), nil
}

// nodeOrString re-parses an unquoted payload as a node when it is shaped
// like one, else keeps it as a string.
func (p *valueParser) nodeOrString(s string) (*Value, error) {
	st := strings.TrimSpace(s)
	if strings.HasPrefix(st, "{") || strings.HasPrefix(st, "[") {
		return p.parseNode(st, 0)
	}
	return Str(s), nil
}

// ============================================================
// Quote/Nesting-Aware Splitting
// ============================================================

// splitTop splits on delim at the top level, respecting double-quoted
// regions and bracket nesting. Parts are returned untrimmed.
func splitTop(s string, delim byte) []string {
	var parts []string
	var cur strings.Builder
	inQuote := false
	depth := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case inQuote:
			cur.WriteByte(c)
		case c == '{' || c == '[':
			depth++
			cur.WriteByte(c)
		case c == '}' || c == ']':
			depth--
			cur.WriteByte(c)
		case c == delim && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	if cur.Len() > 0 || len(parts) > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// findTop returns the index of the first top-level occurrence of delim, or
// -1 if none.
func findTop(s string, delim byte) int {
	inQuote := false
	depth := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			depth--
		case c == delim && depth == 0:
			return i
		}
	}
	return -1
}

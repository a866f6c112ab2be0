package zon

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Table Header Dialects
// ============================================================
//
// Several header grammars are accepted, tried in fixed priority order:
//
//	@name(N)[omA,omB]:cols   named, omitted columns
//	@N[omA,omB]:cols         anonymous, omitted columns
//	@N:cols  /  @(N):cols    anonymous compact
//	@name(N):cols            legacy named
//
// A metadata line of the form  key:@(N):cols  is a named inline header; the
// anonymous grammars are applied to the value substring.

type tableDialect uint8

const (
	dialectNamedOmitted tableDialect = iota
	dialectAnonOmitted
	dialectAnonCompact
	dialectLegacyNamed
	dialectNamedInline
)

// tableHeader is the typed descriptor a header grammar produces.
type tableHeader struct {
	Name    string
	Count   int
	Columns []string
	Omitted []string
	Dialect tableDialect
}

// v2 reports whether rows under this header may carry trailing sparse
// key:value tokens. The legacy dialect is strictly positional.
func (h *tableHeader) v2() bool {
	return h.Dialect != dialectLegacyNamed
}

type headerGrammar struct {
	dialect tableDialect
	re      *regexp.Regexp
	build   func(m []string) *tableHeader
}

var headerGrammars = []headerGrammar{
	{
		dialect: dialectNamedOmitted,
		re:      regexp.MustCompile(`^@(\w+)\((\d+)\)\[([^\]]*)\]:(.*)$`),
		build: func(m []string) *tableHeader {
			return &tableHeader{
				Name:    m[1],
				Count:   atoiCount(m[2]),
				Omitted: splitColumns(m[3]),
				Columns: splitColumns(m[4]),
				Dialect: dialectNamedOmitted,
			}
		},
	},
	{
		dialect: dialectAnonOmitted,
		re:      regexp.MustCompile(`^@\(?(\d+)\)?\[([^\]]*)\]:(.*)$`),
		build: func(m []string) *tableHeader {
			return &tableHeader{
				Name:    defaultStreamKey,
				Count:   atoiCount(m[1]),
				Omitted: splitColumns(m[2]),
				Columns: splitColumns(m[3]),
				Dialect: dialectAnonOmitted,
			}
		},
	},
	{
		dialect: dialectAnonCompact,
		re:      regexp.MustCompile(`^@\(?(\d+)\)?:(.*)$`),
		build: func(m []string) *tableHeader {
			return &tableHeader{
				Name:    defaultStreamKey,
				Count:   atoiCount(m[1]),
				Columns: splitColumns(m[2]),
				Dialect: dialectAnonCompact,
			}
		},
	},
	{
		dialect: dialectLegacyNamed,
		re:      regexp.MustCompile(`^@(\w+)\((\d+)\):(.*)$`),
		build: func(m []string) *tableHeader {
			return &tableHeader{
				Name:    m[1],
				Count:   atoiCount(m[2]),
				Columns: splitColumns(m[3]),
				Dialect: dialectLegacyNamed,
			}
		},
	},
}

// parseTableHeader tries each grammar in priority order; the first match
// wins. No match is a structural error.
func parseTableHeader(line string, lineNum int) (*tableHeader, error) {
	for _, g := range headerGrammars {
		if m := g.re.FindStringSubmatch(line); m != nil {
			h := g.build(m)
			if h.Count < 0 {
				return nil, decodeErrorf(ErrCodeHeader, lineNum, "table count out of range: %s", line)
			}
			return h, nil
		}
	}
	return nil, decodeErrorf(ErrCodeHeader, lineNum, "invalid table header: %s", line)
}

// parseInlineTableHeader parses the value side of a key:@... metadata line.
// Only the anonymous grammars apply; the table takes the line's key as name.
func parseInlineTableHeader(name, value string, lineNum int) (*tableHeader, error) {
	for _, g := range headerGrammars {
		if g.dialect != dialectAnonOmitted && g.dialect != dialectAnonCompact {
			continue
		}
		if m := g.re.FindStringSubmatch(value); m != nil {
			h := g.build(m)
			if h.Count < 0 {
				return nil, decodeErrorf(ErrCodeHeader, lineNum, "table count out of range for %q: %s", name, value)
			}
			h.Name = name
			h.Dialect = dialectNamedInline
			return h, nil
		}
	}
	return nil, decodeErrorf(ErrCodeHeader, lineNum, "invalid table header for %q: %s", name, value)
}

func splitColumns(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.TrimSpace(p))
	}
	return cols
}

// atoiCount parses a header row count. The grammars guarantee digits, so
// the only failure mode is overflow, reported as -1.
func atoiCount(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

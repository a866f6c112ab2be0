package zon

import (
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// Decoder
// ============================================================
//
// Line-oriented single pass. The only mutable parse state is the current
// in-progress table:
//
//	Idle    -> InTable   on a header line
//	InTable -> InTable   while declared rows remain
//	InTable -> Idle      when the declared count is reached
//	Idle    -> Idle      on metadata and blank lines
//
// An unterminated table (fewer rows than declared) is an error only in
// strict mode.

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// Strict enforces row-count and field-count matching against table
	// headers. When false, short rows are padded and long rows truncated.
	Strict bool
	// Limits bounds resource use; zero value means DefaultLimits.
	Limits Limits
}

// DefaultDecodeOptions returns strict decoding with default limits.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Strict: true, Limits: DefaultLimits()}
}

// Decoder converts ZON text to values. It is stateless across calls and
// safe for concurrent use.
type Decoder struct {
	opts DecodeOptions
}

// NewDecoder creates a decoder with default options.
func NewDecoder() *Decoder {
	return NewDecoderWithOptions(DefaultDecodeOptions())
}

// NewDecoderWithOptions creates a decoder with the given options. Zero
// limit fields fall back to their defaults individually.
func NewDecoderWithOptions(opts DecodeOptions) *Decoder {
	def := DefaultLimits()
	if opts.Limits.MaxDocumentSize <= 0 {
		opts.Limits.MaxDocumentSize = def.MaxDocumentSize
	}
	if opts.Limits.MaxLineLength <= 0 {
		opts.Limits.MaxLineLength = def.MaxLineLength
	}
	if opts.Limits.MaxArrayLength <= 0 {
		opts.Limits.MaxArrayLength = def.MaxArrayLength
	}
	if opts.Limits.MaxObjectKeys <= 0 {
		opts.Limits.MaxObjectKeys = def.MaxObjectKeys
	}
	if opts.Limits.MaxDepth <= 0 {
		opts.Limits.MaxDepth = def.MaxDepth
	}
	return &Decoder{opts: opts}
}

// tableState is an in-progress table descriptor.
type tableState struct {
	header    *tableHeader
	rows      []*Value // flattened row objects
	startLine int
}

func (t *tableState) full() bool {
	return len(t.rows) >= t.header.Count
}

// Decode parses ZON text into a value. On any fatal error no partial value
// is returned.
func (d *Decoder) Decode(input string) (*Value, error) {
	if len(input) > d.opts.Limits.MaxDocumentSize {
		return nil, decodeErrorf(ErrCodeDocumentSize, 0,
			"document is %d bytes, limit %d", len(input), d.opts.Limits.MaxDocumentSize)
	}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Object(), nil
	}

	lines := strings.Split(trimmed, "\n")

	// A single-line document that is a bare value bypasses the line
	// protocol entirely. This is the inverse of the encoder's plain-JSON
	// fallback and the bare inline-array case.
	if len(lines) == 1 {
		if len(trimmed) > d.opts.Limits.MaxLineLength {
			return nil, decodeErrorf(ErrCodeLineLength, 1,
				"line is %d bytes, limit %d", len(trimmed), d.opts.Limits.MaxLineLength)
		}
		vp := &valueParser{limits: d.opts.Limits, line: 1}
		switch {
		case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{"):
			return vp.parseNode(trimmed, 0)
		case strings.HasPrefix(trimmed, `"`):
			return parsePrimitive(trimmed), nil
		case !strings.Contains(trimmed, metaSeparator) && !strings.HasPrefix(trimmed, tableMarker):
			return parsePrimitive(trimmed), nil
		}
	}

	metadata := Object()
	var tables []*tableState
	tableIdx := map[string]int{}
	var current *tableState

	openTable := func(h *tableHeader, lineNum int) {
		t := &tableState{header: h, startLine: lineNum}
		if i, ok := tableIdx[h.Name]; ok {
			tables[i] = t
		} else {
			tableIdx[h.Name] = len(tables)
			tables = append(tables, t)
		}
		current = t
	}

	for i, raw := range lines {
		lineNum := i + 1
		if len(raw) > d.opts.Limits.MaxLineLength {
			return nil, decodeErrorf(ErrCodeLineLength, lineNum,
				"line is %d bytes, limit %d", len(raw), d.opts.Limits.MaxLineLength)
		}
		line := strings.TrimRight(raw, " \t\r")
		if line == "" {
			continue
		}
		vp := &valueParser{limits: d.opts.Limits, line: lineNum}

		// Table header.
		if strings.HasPrefix(line, tableMarker) {
			h, err := parseTableHeader(line, lineNum)
			if err != nil {
				return nil, err
			}
			openTable(h, lineNum)
			continue
		}

		// Table row.
		if current != nil && !current.full() {
			row, err := d.parseTableRow(line, current, vp)
			if err != nil {
				return nil, errors.Wrapf(err, "table %q", current.header.Name)
			}
			current.rows = append(current.rows, row)
			if current.full() {
				current = nil
			}
			continue
		}

		// Metadata line, or a named inline table header.
		if idx := strings.Index(line, metaSeparator); idx >= 0 {
			current = nil
			key := strings.TrimSpace(line[:idx])
			val := strings.TrimSpace(line[idx+1:])

			if strings.HasPrefix(val, tableMarker) {
				if h, err := parseInlineTableHeader(key, val, lineNum); err == nil {
					openTable(h, lineNum)
					continue
				}
				// Not a header shape after all: plain metadata value.
			}

			v, err := vp.parseCell(val)
			if err != nil {
				return nil, err
			}
			metadata.Set(key, v)
		}
		// Anything else is noise between blocks; skipped.
	}

	// Reconstruct tables into arrays of un-flattened row objects.
	for _, t := range tables {
		if d.opts.Strict && len(t.rows) != t.header.Count {
			return nil, decodeErrorf(ErrCodeRowCount, t.startLine,
				"table %q declares %d rows, got %d", t.header.Name, t.header.Count, len(t.rows))
		}
		rowObjs := make([]*Value, len(t.rows))
		for i, r := range t.rows {
			rowObjs[i] = unflattenFields(r.Fields(), d.opts.Limits)
		}
		metadata.Set(t.header.Name, Array(rowObjs...))
	}

	result := unflattenFields(metadata.Fields(), d.opts.Limits)

	// Inverse of the encoder's default-key convention.
	if result.Len() == 1 {
		f := result.Fields()[0]
		if f.Key == defaultStreamKey && f.Value.Kind() == KindArray {
			return f.Value, nil
		}
	}
	return result, nil
}

// parseTableRow parses one CSV-style row against the open table.
//
// For v2 headers, pair-shaped tokens (top-level colon, not a URL scheme or
// timestamp prefix) are peeled off the tail as sparse key:value pairs. The
// URL/timestamp checks are heuristic: a compliant encoder quotes any
// positional value containing a colon, so only hand-written input can
// present an ambiguous bare token here.
func (d *Decoder) parseTableRow(line string, t *tableState, vp *valueParser) (*Value, error) {
	tokens := splitTop(line, ',')
	cols := t.header.Columns

	var pairs []string
	if t.header.v2() {
		for len(tokens) > 0 {
			tok := strings.TrimSpace(tokens[len(tokens)-1])
			ci := findTop(tok, ':')
			if ci <= 0 || isURLShaped(tok) || hasTimestampPrefix(tok) {
				break
			}
			pairs = append(pairs, tok)
			tokens = tokens[:len(tokens)-1]
		}
	}

	if len(tokens) != len(cols) {
		if d.opts.Strict {
			return nil, decodeErrorf(ErrCodeFieldCount, vp.line,
				"row has %d values for %d columns", len(tokens), len(cols))
		}
		for len(tokens) < len(cols) {
			tokens = append(tokens, "")
		}
		tokens = tokens[:len(cols)]
	}

	row := Object()
	for i, col := range cols {
		v, err := vp.parseCell(tokens[i])
		if err != nil {
			return nil, err
		}
		row.Set(col, v)
	}

	// Omitted columns reconstruct as an implicit 1-based sequence.
	for _, col := range t.header.Omitted {
		row.Set(col, Int(int64(len(t.rows)+1)))
	}

	// Sparse pairs were peeled right-to-left.
	for i := len(pairs) - 1; i >= 0; i-- {
		ci := findTop(pairs[i], ':')
		key := strings.TrimSpace(pairs[i][:ci])
		v, err := vp.parseCell(pairs[i][ci+1:])
		if err != nil {
			return nil, err
		}
		row.Set(key, v)
	}

	return row, nil
}

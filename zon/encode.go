package zon

import (
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Encoder
// ============================================================
//
// Stages, in order, no backtracking:
//  1. Root promotion: split the dominant array-of-objects ("stream") from
//     the residual metadata.
//  2. Fallback: nothing to promote and no metadata -> minified JSON.
//  3. Irregularity gate: streams with too-dissimilar row key sets render as
//     inline nodes instead of a sparse table.
//  4. Metadata emission: sorted key:value lines.
//  5. Table emission: standard (all columns positional) or sparse (core
//     columns positional, optional fields as trailing key:value pairs).

const (
	// irregularityThreshold is the cutoff on 1 - avg pairwise Jaccard
	// similarity of row key sets. Above it, a table wastes more space as
	// sparse columns than explicit per-row objects.
	irregularityThreshold = 0.6

	// coreColumnShare is the presence ratio at which a column gets a fixed
	// position instead of sparse key:value emission.
	coreColumnShare = 0.7

	// maxSparseColumns caps how many optional columns the sparse layout
	// tolerates before falling back to the standard table.
	maxSparseColumns = 5
)

// EncodeOptions configures encoding.
type EncodeOptions struct {
	// AnchorInterval is retained for signature compatibility with earlier
	// releases. It has no effect on output.
	AnchorInterval int
}

// DefaultEncodeOptions returns the default options.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{AnchorInterval: 50}
}

// Encoder converts values to ZON text. It is stateless and safe for
// concurrent use.
type Encoder struct {
	opts EncodeOptions
}

// NewEncoder creates an encoder with default options.
func NewEncoder() *Encoder {
	return NewEncoderWithOptions(DefaultEncodeOptions())
}

// NewEncoderWithOptions creates an encoder with the given options.
func NewEncoderWithOptions(opts EncodeOptions) *Encoder {
	return &Encoder{opts: opts}
}

// Encode renders a value as ZON text. The only failure mode is
// ErrCircularReference; malformed leaves (non-finite floats) degrade to
// null instead of erroring.
func (e *Encoder) Encode(v *Value) (string, error) {
	stream, meta, streamKey := extractPrimaryStream(v)

	if stream == nil && meta.Len() == 0 {
		return encodeFallbackJSON(v)
	}

	if stream != nil && (irregularity(stream.Items()) > irregularityThreshold || rowsHaveNoColumns(stream.Items())) {
		if streamKey == "" {
			// Bare irregular array: the whole document is one inline node.
			return formatNode(stream, map[*Value]struct{}{})
		}
		// Named irregular stream: demote it back to metadata; it renders
		// as a quoted inline node.
		meta.Set(streamKey, stream)
		stream = nil
	}

	var lines []string

	if meta.Len() > 0 {
		metaLines, err := writeMetadata(meta)
		if err != nil {
			return "", err
		}
		lines = append(lines, metaLines...)
	}

	if stream != nil {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		tableLines, err := writeTable(stream, streamKey)
		if err != nil {
			return "", err
		}
		lines = append(lines, tableLines...)
	}

	return strings.Join(lines, "\n"), nil
}

// ============================================================
// Root Promotion
// ============================================================

// extractPrimaryStream finds the main table in the value. A bare array of
// objects is the stream itself (no key). For an object, the field with the
// highest rows x first-row-columns score wins; ties go to the first
// candidate in insertion order. Everything else is metadata.
func extractPrimaryStream(v *Value) (stream, meta *Value, streamKey string) {
	switch v.Kind() {
	case KindArray:
		if v.Len() > 0 && allObjects(v.Items()) {
			return v, Object(), ""
		}
		return nil, Object(), ""

	case KindObject:
		bestScore := -1
		var best *Value
		bestKey := ""
		for _, f := range v.Fields() {
			if f.Value.Kind() != KindArray || f.Value.Len() == 0 || !allObjects(f.Value.Items()) {
				continue
			}
			score := f.Value.Len() * f.Value.Items()[0].Len()
			if score > bestScore {
				best, bestKey, bestScore = f.Value, f.Key, score
			}
		}
		if best == nil {
			return nil, v, ""
		}
		meta = Object()
		for _, f := range v.Fields() {
			if f.Key != bestKey {
				meta.Set(f.Key, f.Value)
			}
		}
		return best, meta, bestKey
	}

	return nil, Object(), ""
}

func allObjects(items []*Value) bool {
	for _, it := range items {
		if it.Kind() != KindObject {
			return false
		}
	}
	return true
}

// rowsHaveNoColumns reports whether every row is an empty object. Such a
// stream has no columns, and its rows would render as blank lines a table
// cannot carry.
func rowsHaveNoColumns(rows []*Value) bool {
	for _, r := range rows {
		if r.Len() > 0 {
			return false
		}
	}
	return true
}

// irregularity is 1 - average pairwise Jaccard similarity of row key sets.
func irregularity(rows []*Value) float64 {
	n := len(rows)
	if n < 2 {
		return 0
	}
	keysets := make([]map[string]struct{}, n)
	for i, row := range rows {
		ks := make(map[string]struct{}, row.Len())
		for _, f := range row.Fields() {
			ks[f.Key] = struct{}{}
		}
		keysets[i] = ks
	}
	var total float64
	pairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			total += jaccard(keysets[i], keysets[j])
			pairs++
		}
	}
	return 1 - total/float64(pairs)
}

func jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// ============================================================
// Emission
// ============================================================

// encodeFallbackJSON is the escape hatch for inputs the table model cannot
// usefully compress: minified JSON, with the int/float distinction kept
// (whole floats render with a trailing .0, which is still valid JSON).
func encodeFallbackJSON(v *Value) (string, error) {
	var b strings.Builder
	if err := writeJSON(v, &b, map[*Value]struct{}{}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// writeMetadata emits one key:value line per flattened field, keys sorted
// for determinism.
func writeMetadata(meta *Value) ([]string, error) {
	flat := flattenObject(meta, "", flattenDepth, 0)
	sort.SliceStable(flat, func(i, j int) bool { return flat[i].Key < flat[j].Key })

	lines := make([]string, 0, len(flat))
	for _, f := range flat {
		cell, err := formatCell(f.Value, map[*Value]struct{}{})
		if err != nil {
			return nil, err
		}
		lines = append(lines, f.Key+metaSeparator+cell)
	}
	return lines, nil
}

// writeTable emits the header plus one CSV-style line per row. Columns
// present in at least coreColumnShare of rows hold fixed positions; when
// 1..maxSparseColumns columns are optional, rows append key:value pairs for
// the optional fields they actually carry.
func writeTable(stream *Value, streamKey string) ([]string, error) {
	rows := stream.Items()
	flatRows := make([]*Value, len(rows))
	presence := map[string]int{}
	for i, row := range rows {
		fr := Object(flattenObject(row, "", flattenDepth, 0)...)
		flatRows[i] = fr
		for _, f := range fr.Fields() {
			presence[f.Key]++
		}
	}

	cols := make([]string, 0, len(presence))
	for col := range presence {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var core, optional []string
	for _, col := range cols {
		if float64(presence[col])/float64(len(rows)) >= coreColumnShare {
			core = append(core, col)
		} else {
			optional = append(optional, col)
		}
	}

	// A sparse layout needs at least one positional column: a row with none
	// of the optional fields would otherwise render as a blank line.
	sparse := len(core) > 0 && len(optional) >= 1 && len(optional) <= maxSparseColumns
	if !sparse {
		core = cols
		optional = nil
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, tableHeaderLine(streamKey, len(rows), core))

	for _, fr := range flatRows {
		tokens := make([]string, 0, len(core)+len(optional))
		for _, col := range core {
			v, ok := fr.Get(col)
			if !ok {
				v = Null()
			}
			cell, err := formatCell(v, map[*Value]struct{}{})
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, cell)
		}
		for _, col := range optional {
			v, ok := fr.Get(col)
			if !ok || v.IsNull() {
				continue
			}
			cell, err := formatCell(v, map[*Value]struct{}{})
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, col+metaSeparator+cell)
		}
		lines = append(lines, strings.Join(tokens, ","))
	}

	return lines, nil
}

// tableHeaderLine renders the v2 header: anonymous-compact for the default
// stream, named otherwise.
func tableHeaderLine(streamKey string, count int, cols []string) string {
	colList := strings.Join(cols, ",")
	n := strconv.Itoa(count)
	if streamKey == "" || streamKey == defaultStreamKey {
		return tableMarker + n + metaSeparator + colList
	}
	return streamKey + metaSeparator + tableMarker + "(" + n + ")" + metaSeparator + colList
}

package zon

import (
	"testing"
)

func TestParseTableHeader_Dialects(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    tableHeader
		dialect tableDialect
	}{
		{
			name:    "anonymous compact",
			line:    "@3:id,name",
			want:    tableHeader{Name: "data", Count: 3, Columns: []string{"id", "name"}},
			dialect: dialectAnonCompact,
		},
		{
			name:    "anonymous compact with parens",
			line:    "@(3):id,name",
			want:    tableHeader{Name: "data", Count: 3, Columns: []string{"id", "name"}},
			dialect: dialectAnonCompact,
		},
		{
			name:    "anonymous with omitted columns",
			line:    "@5[seq]:id,name",
			want:    tableHeader{Name: "data", Count: 5, Columns: []string{"id", "name"}, Omitted: []string{"seq"}},
			dialect: dialectAnonOmitted,
		},
		{
			name:    "named with omitted columns",
			line:    "@orders(2)[seq,idx]:total",
			want:    tableHeader{Name: "orders", Count: 2, Columns: []string{"total"}, Omitted: []string{"seq", "idx"}},
			dialect: dialectNamedOmitted,
		},
		{
			name:    "legacy named",
			line:    "@users(4):id,name,email",
			want:    tableHeader{Name: "users", Count: 4, Columns: []string{"id", "name", "email"}},
			dialect: dialectLegacyNamed,
		},
		{
			name:    "spaces after commas tolerated",
			line:    "@2:id, name, sunny",
			want:    tableHeader{Name: "data", Count: 2, Columns: []string{"id", "name", "sunny"}},
			dialect: dialectAnonCompact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTableHeader(tt.line, 1)
			if err != nil {
				t.Fatalf("parseTableHeader(%q) failed: %v", tt.line, err)
			}
			if got.Dialect != tt.dialect {
				t.Errorf("dialect = %d, want %d", got.Dialect, tt.dialect)
			}
			if got.Name != tt.want.Name || got.Count != tt.want.Count {
				t.Errorf("name/count = %s/%d, want %s/%d", got.Name, got.Count, tt.want.Name, tt.want.Count)
			}
			if len(got.Columns) != len(tt.want.Columns) {
				t.Fatalf("columns = %v, want %v", got.Columns, tt.want.Columns)
			}
			for i := range got.Columns {
				if got.Columns[i] != tt.want.Columns[i] {
					t.Errorf("column %d = %q, want %q", i, got.Columns[i], tt.want.Columns[i])
				}
			}
			if len(got.Omitted) != len(tt.want.Omitted) {
				t.Fatalf("omitted = %v, want %v", got.Omitted, tt.want.Omitted)
			}
		})
	}
}

func TestParseTableHeader_Invalid(t *testing.T) {
	for _, line := range []string{
		"@", "@:cols", "@abc:cols", "@x(y):cols",
		"@99999999999999999999:id", // count overflows int
		"@users(99999999999999999999):id",
	} {
		_, err := parseTableHeader(line, 7)
		if err == nil {
			t.Errorf("parseTableHeader(%q) should fail", line)
			continue
		}
		de, ok := err.(*DecodeError)
		if !ok || de.Code != ErrCodeHeader {
			t.Errorf("parseTableHeader(%q): expected %s, got %v", line, ErrCodeHeader, err)
		}
		if ok && de.Line != 7 {
			t.Errorf("error should carry line 7, got %d", de.Line)
		}
	}
}

func TestParseInlineTableHeader(t *testing.T) {
	h, err := parseInlineTableHeader("users", "@(3):id,name", 2)
	if err != nil {
		t.Fatalf("parseInlineTableHeader failed: %v", err)
	}
	if h.Name != "users" || h.Count != 3 || h.Dialect != dialectNamedInline {
		t.Errorf("got %+v", h)
	}
	if !h.v2() {
		t.Error("named inline headers are v2")
	}

	if _, err := parseInlineTableHeader("users", "@channel mention", 2); err == nil {
		t.Error("non-header value should not parse")
	}
}

func TestHeaderV2Flag(t *testing.T) {
	legacy, _ := parseTableHeader("@users(1):id", 1)
	if legacy.v2() {
		t.Error("legacy dialect must be positional-only")
	}
	compact, _ := parseTableHeader("@1:id", 1)
	if !compact.v2() {
		t.Error("compact dialect is v2")
	}
}

package zon

import (
	"math"
	"testing"
)

// ============================================================
// Cell Formatting Tests
// ============================================================

func TestFormatCell_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"null", Null(), "null"},
		{"true", Bool(true), "T"},
		{"false", Bool(false), "F"},
		{"int", Int(127), "127"},
		{"negative int", Int(-42), "-42"},
		{"zero", Int(0), "0"},
		{"float", Float(3.14), "3.14"},
		{"whole float gets dot", Float(127.0), "127.0"},
		{"negative float", Float(-0.5), "-0.5"},
		{"nan degrades to null", Float(math.NaN()), "null"},
		{"inf degrades to null", Float(math.Inf(1)), "null"},
		{"neg inf degrades to null", Float(math.Inf(-1)), "null"},
		{"bare string", Str("hello"), "hello"},
		{"string with space", Str("hello world"), "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatCell(tt.value, map[*Value]struct{}{})
			if err != nil {
				t.Fatalf("formatCell failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("formatCell = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatCell_StringProtection(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// Reserved literals must not decode as bool/null.
		{"true", `"""true"""`},
		{"T", `"""T"""`},
		{"null", `"""null"""`},
		{"None", `"""None"""`},
		{"nil", `"""nil"""`},
		// Numeric-looking strings must stay strings.
		{"123", `"""123"""`},
		{"-7", `"""-7"""`},
		{"123.45", `"""123.45"""`},
		{"1e5", `"""1e5"""`},
		// Whitespace padding is preserved only under quotes.
		{" padded", `""" padded"""`},
		{"padded ", `"""padded """`},
		// Empty string.
		{"", `""""""`},
		// Delimiters force CSV quoting without the JSON layer.
		{"a,b", `"a,b"`},
		{"a:b", `"a:b"`},
		{"a[b]", `"a[b]"`},
		{"a|b", `"a|b"`},
		{"say \"hi\"", `"say ""hi"""`},
		// Legacy control tokens.
		{"_", `"""_"""`},
		{"^", `"""^"""`},
		// A leading table marker must not open a table.
		{"@alice", `"""@alice"""`},
		// An interior @ is harmless.
		{"user@host", "user@host"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := formatCell(Str(tt.input), map[*Value]struct{}{})
			if err != nil {
				t.Fatalf("formatCell failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("formatCell(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatCell_TimestampsStayBare(t *testing.T) {
	tests := []string{
		"2024-01-15",
		"2024-01-15T10:30:00Z",
		"2024-01-15 10:30:00",
		"2024-01-15T10:30:00.123+02:00",
		"10:30:00",
	}
	for _, in := range tests {
		got, err := formatCell(Str(in), map[*Value]struct{}{})
		if err != nil {
			t.Fatalf("formatCell failed: %v", err)
		}
		if got != in {
			t.Errorf("formatCell(%q) = %q, want it bare", in, got)
		}
	}
}

// ============================================================
// Node Formatting Tests
// ============================================================

func TestFormatNode_Containers(t *testing.T) {
	tests := []struct {
		name     string
		value    *Value
		expected string
	}{
		{"empty object", Object(), "{}"},
		{"empty array", Array(), "[]"},
		{"flat object", Object(F("a", Int(1)), F("b", Str("x"))), "{a:1,b:x}"},
		{"flat array", Array(Int(1), Int(2), Int(3)), "[1,2,3]"},
		{"nested", Object(F("u", Object(F("id", Int(1))))), "{u:{id:1}}"},
		{"quoted string value", Object(F("s", Str("a,b"))), `{s:"a,b"}`},
		{"quoted numeric string", Array(Str("123")), `["123"]`},
		{"quoted key", Object(F("k:1", Int(2))), `{"k:1":2}`},
		{"bool and null", Array(Bool(true), Bool(false), Null()), "[T,F,null]"},
		{"float in node", Array(Float(2.0)), "[2.0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatNode(tt.value, map[*Value]struct{}{})
			if err != nil {
				t.Fatalf("formatNode failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("formatNode = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatNode_CircularReference(t *testing.T) {
	obj := Object(F("x", Int(1)))
	obj.Set("self", obj)

	if _, err := formatNode(obj, map[*Value]struct{}{}); err != ErrCircularReference {
		t.Fatalf("expected ErrCircularReference, got %v", err)
	}

	arr := Array(Int(1))
	arr.arrVal = append(arr.arrVal, arr)
	if _, err := formatNode(arr, map[*Value]struct{}{}); err != ErrCircularReference {
		t.Fatalf("expected ErrCircularReference for array cycle, got %v", err)
	}
}

func TestFormatNode_DiamondSharingIsNotACycle(t *testing.T) {
	shared := Object(F("x", Int(1)))
	root := Object(F("a", shared), F("b", shared))

	got, err := formatNode(root, map[*Value]struct{}{})
	if err != nil {
		t.Fatalf("diamond sharing falsely flagged: %v", err)
	}
	if got != "{a:{x:1},b:{x:1}}" {
		t.Errorf("formatNode = %q", got)
	}
}

func TestFormatFloat_AlwaysHasDot(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{127.0, "127.0"},
		{0.0, "0.0"},
		{1e2, "100.0"},
		{0.1, "0.1"},
		{-3.0, "-3.0"},
	}
	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.expected {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

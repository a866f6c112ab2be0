package zon

import "testing"

func TestFromJSON_PreservesKeyOrder(t *testing.T) {
	v, err := FromJSON([]byte(`{"zebra":1,"apple":2,"mango":3}`))
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{}
	for _, f := range v.Fields() {
		keys = append(keys, f.Key)
	}
	want := []string{"zebra", "apple", "mango"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key order = %v, want %v", keys, want)
		}
	}
}

func TestFromJSON_Numbers(t *testing.T) {
	v, err := FromJSON([]byte(`{"i":5,"f":5.0,"neg":-7,"exp":1e3,"big":123456789012345678901}`))
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Get("i"); got.Kind() != KindInt || got.IntVal() != 5 {
		t.Errorf("i = %+v", got)
	}
	if got, _ := v.Get("f"); got.Kind() != KindFloat || got.FloatVal() != 5.0 {
		t.Errorf("f = %+v", got)
	}
	if got, _ := v.Get("neg"); !got.Equal(Int(-7)) {
		t.Errorf("neg = %+v", got)
	}
	// Exponent and overflow forms fall through to float.
	if got, _ := v.Get("exp"); got.Kind() != KindFloat {
		t.Errorf("exp = %+v", got)
	}
	if got, _ := v.Get("big"); got.Kind() != KindFloat {
		t.Errorf("big = %+v", got)
	}
}

func TestFromJSON_Nested(t *testing.T) {
	v, err := FromJSON([]byte(`{"a":[1,{"b":[true,null]}],"s":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Object(
		F("a", Array(Int(1), Object(F("b", Array(Bool(true), Null()))))),
		F("s", Str("x")),
	)
	if !v.Equal(want) {
		t.Errorf("got %+v", v)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	if _, err := FromJSON([]byte(`{"a":`)); err == nil {
		t.Error("truncated JSON should fail")
	}
	if _, err := FromJSON([]byte(`{"a":1} {"b":2}`)); err == nil {
		t.Error("trailing data should fail")
	}
}

func TestToJSON(t *testing.T) {
	v := Object(
		F("i", Int(2)),
		F("f", Float(2)),
		F("s", Str(`say "hi"`)),
		F("xs", Array(Null(), Bool(false))),
	)
	got, err := ToJSON(v)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"i":2,"f":2.0,"s":"say \"hi\"","xs":[null,false]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeJSONAndBack(t *testing.T) {
	zonText, err := EncodeJSON([]byte(`[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if zonText != "@2:id,name\n1,Alice\n2,Bob" {
		t.Errorf("EncodeJSON = %q", zonText)
	}

	jsonText, err := DecodeToJSON(zonText)
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"id":1,"name":"Alice"},{"id":2,"name":"Bob"}]`
	if string(jsonText) != want {
		t.Errorf("DecodeToJSON = %s, want %s", jsonText, want)
	}
}

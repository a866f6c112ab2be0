package zon

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ============================================================
// JSON Bridge
// ============================================================
//
// Converts between JSON text and Value. A token walk is used instead of
// unmarshalling into map[string]interface{} for two reasons: object key
// order must survive (the encoder's promotion tie-break depends on it), and
// json.Number keeps the int/float distinction the format guarantees.

// FromJSON parses JSON text into a Value.
func FromJSON(data []byte) (*Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, errors.Wrap(err, "zon: invalid JSON")
	}
	if dec.More() {
		return nil, errors.New("zon: trailing data after JSON value")
	}
	return v, nil
}

func readJSONValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return jsonTokenValue(dec, tok)
}

func jsonTokenValue(dec *json.Decoder, tok json.Token) (*Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil

	case bool:
		return Bool(t), nil

	case string:
		return Str(t), nil

	case json.Number:
		s := t.String()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return Float(f), nil

	case json.Delim:
		switch t {
		case '{':
			obj := Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.Errorf("object key is %T, want string", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil

		case '[':
			arr := Array()
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.arrVal = append(arr.arrVal, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		}
	}
	return nil, errors.Errorf("unexpected JSON token %v", tok)
}

// ToJSON renders a value as minified JSON. Whole floats keep a trailing .0
// so the int/float distinction survives a JSON round-trip; non-finite
// floats become null.
func ToJSON(v *Value) ([]byte, error) {
	var b strings.Builder
	if err := writeJSON(v, &b, map[*Value]struct{}{}); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func writeJSON(v *Value, b *strings.Builder, seen map[*Value]struct{}) error {
	switch v.Kind() {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		if v.boolVal {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(v.intVal, 10))
	case KindFloat:
		if math.IsNaN(v.floatVal) || math.IsInf(v.floatVal, 0) {
			b.WriteString("null")
		} else {
			b.WriteString(formatFloat(v.floatVal))
		}
	case KindString:
		b.WriteString(jsonQuote(v.strVal))
	case KindArray:
		if _, ok := seen[v]; ok {
			return ErrCircularReference
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		b.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(item, b, seen); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindObject:
		if _, ok := seen[v]; ok {
			return ErrCircularReference
		}
		seen[v] = struct{}{}
		defer delete(seen, v)

		b.WriteByte('{')
		for i, f := range v.objVal {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(jsonQuote(f.Key))
			b.WriteByte(':')
			if err := writeJSON(f.Value, b, seen); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	}
	return nil
}
